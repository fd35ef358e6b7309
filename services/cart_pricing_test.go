package services

import (
	"testing"

	"wajba-server/models"

	"github.com/stretchr/testify/assert"
)

func line(quantity int, unitPrice float64) models.CartItem {
	return models.CartItem{
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: float64(quantity) * unitPrice,
	}
}

func TestSummarizeSingleLine(t *testing.T) {
	items := []models.CartItem{line(2, 1000)}
	terms := MerchantTerms{DeliveryFee: 100, MinOrder: 500}

	summary := Summarize(items, terms)

	assert.Equal(t, 2000.0, summary.Subtotal)
	assert.Equal(t, 330.0, summary.TaxAmount)
	assert.Equal(t, 100.0, summary.DeliveryFee)
	assert.Equal(t, 2430.0, summary.Total)
	assert.Equal(t, 2, summary.ItemCount)
	assert.True(t, summary.MeetsMinOrder)
}

func TestSummarizeTotalIsSumOfParts(t *testing.T) {
	items := []models.CartItem{
		line(1, 450),
		line(3, 120.5),
		line(2, 79.99),
	}
	terms := MerchantTerms{DeliveryFee: 80, MinOrder: 300}

	summary := Summarize(items, terms)

	assert.Equal(t, summary.Subtotal+summary.DeliveryFee+summary.TaxAmount, summary.Total)
	assert.Equal(t, 6, summary.ItemCount)
}

func TestSummarizeItemCountSumsQuantities(t *testing.T) {
	items := []models.CartItem{line(5, 10), line(7, 20)}

	summary := Summarize(items, MerchantTerms{})

	assert.Equal(t, 12, summary.ItemCount, "item count is the sum of quantities, not rows")
}

func TestSummarizeMinOrderBoundary(t *testing.T) {
	terms := MerchantTerms{MinOrder: 500}

	exactly := Summarize([]models.CartItem{line(1, 500)}, terms)
	assert.True(t, exactly.MeetsMinOrder, "subtotal equal to minimum must satisfy it")

	below := Summarize([]models.CartItem{line(1, 499.99)}, terms)
	assert.False(t, below.MeetsMinOrder)
}

func TestSummarizeEmptyCart(t *testing.T) {
	summary := Summarize(nil, MerchantTerms{DeliveryFee: 100, MinOrder: 500})

	assert.Equal(t, CartSummary{MeetsMinOrder: true}, summary,
		"empty cart is all zeros and meets the minimum order")
}

func TestSummarizeRounding(t *testing.T) {
	// 3 x 33.33 = 99.99; tax 16.50 after rounding
	summary := Summarize([]models.CartItem{line(3, 33.33)}, MerchantTerms{})

	assert.Equal(t, 99.99, summary.Subtotal)
	assert.Equal(t, 16.5, summary.TaxAmount)
	assert.Equal(t, 116.49, summary.Total)
}
