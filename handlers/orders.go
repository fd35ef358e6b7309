package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"wajba-server/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserOrders handles GET /api/v1/orders
func GetUserOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}

	status := c.Query("status")
	offset := (page - 1) * limit

	query := `
		SELECT o.id, o.user_id, o.merchant_id, o.order_number, o.status,
		       o.subtotal, o.delivery_fee, o.tax_amount, o.total_amount, o.currency,
		       o.delivery_address, o.created_at, o.updated_at
		FROM orders o
		WHERE o.user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if status != "" {
		query += fmt.Sprintf(" AND o.status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := DB.Query(query, args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	countQuery := "SELECT COUNT(*) FROM orders WHERE user_id = $1"
	countArgs := []interface{}{userID}
	if status != "" {
		countQuery += " AND status = $2"
		countArgs = append(countArgs, status)
	}

	var total int
	if err := DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	respondOK(c, "OK", gin.H{
		"orders": orders,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + limit - 1) / limit,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var order models.Order
	var deliveryAddressJSON []byte

	query := `
		SELECT id, user_id, merchant_id, order_number, status,
		       subtotal, delivery_fee, tax_amount, total_amount, currency,
		       delivery_address, created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2`

	err = DB.QueryRow(query, orderID, userID).Scan(
		&order.ID, &order.UserID, &order.MerchantID, &order.OrderNumber, &order.Status,
		&order.Subtotal, &order.DeliveryFee, &order.TaxAmount, &order.TotalAmount, &order.Currency,
		&deliveryAddressJSON, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	if len(deliveryAddressJSON) > 0 {
		json.Unmarshal(deliveryAddressJSON, &order.DeliveryAddress)
	}

	itemsQuery := `
		SELECT id, order_id, menu_item_id, item_name, item_image,
		       quantity, unit_price, total_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC`

	rows, err := DB.Query(itemsQuery, orderID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch order items")
		return
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName, &item.ItemImage,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt,
		)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	order.Items = items

	respondOK(c, "OK", order)
}

func scanOrder(rows *sql.Rows) (models.Order, error) {
	var order models.Order
	var deliveryAddressJSON []byte

	err := rows.Scan(
		&order.ID, &order.UserID, &order.MerchantID, &order.OrderNumber, &order.Status,
		&order.Subtotal, &order.DeliveryFee, &order.TaxAmount, &order.TotalAmount, &order.Currency,
		&deliveryAddressJSON, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return order, err
	}

	if len(deliveryAddressJSON) > 0 {
		json.Unmarshal(deliveryAddressJSON, &order.DeliveryAddress)
	}
	return order, nil
}
