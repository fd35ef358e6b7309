package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"wajba-server/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetMerchants lists active merchants, optionally filtered by search
// text or city
func GetMerchants(c *gin.Context) {
	search := c.Query("search")
	city := c.Query("city")

	query := `SELECT id, name, description, logo, cover_image, phone, city, quartier, tags,
	          delivery_fee, min_order_amount, rating, is_active, created_at, updated_at
	          FROM merchants WHERE is_active = true`
	args := []interface{}{}
	argIndex := 1

	if search != "" {
		query += " AND (name ILIKE $" + strconv.Itoa(argIndex) + " OR tags ILIKE $" + strconv.Itoa(argIndex) + ")"
		args = append(args, "%"+search+"%")
		argIndex++
	}

	if city != "" {
		query += " AND city = $" + strconv.Itoa(argIndex)
		args = append(args, city)
		argIndex++
	}

	query += " ORDER BY rating DESC, name ASC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch merchants")
		return
	}
	defer rows.Close()

	merchants := []models.Merchant{}
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			continue
		}
		merchants = append(merchants, m)
	}

	respondOK(c, "OK", gin.H{"merchants": merchants})
}

// GetMerchant returns a single merchant by id
func GetMerchant(c *gin.Context) {
	merchantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid merchant ID")
		return
	}

	var m models.Merchant
	query := `SELECT id, name, description, logo, cover_image, phone, city, quartier, tags,
	          delivery_fee, min_order_amount, rating, is_active, created_at, updated_at
	          FROM merchants WHERE id = $1 AND is_active = true`

	err = DB.QueryRow(query, merchantID).Scan(
		&m.ID, &m.Name, &m.Description, &m.Logo, &m.CoverImage, &m.Phone,
		&m.City, &m.Quartier, &m.Tags, &m.DeliveryFee, &m.MinOrderAmount,
		&m.Rating, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusNotFound, "Merchant not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch merchant")
		return
	}

	respondOK(c, "OK", m)
}

// GetMerchantMenu returns the merchant's active menu items grouped in
// menu order
func GetMerchantMenu(c *gin.Context) {
	merchantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid merchant ID")
		return
	}

	var exists bool
	err = DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM merchants WHERE id = $1 AND is_active = true)`,
		merchantID).Scan(&exists)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch merchant")
		return
	}
	if !exists {
		respondError(c, http.StatusNotFound, "Merchant not found")
		return
	}

	query := `SELECT id, merchant_id, name, description, image, price, discounted_price,
	          section, in_stock, is_active, created_at, updated_at
	          FROM menu_items WHERE merchant_id = $1 AND is_active = true
	          ORDER BY section NULLS LAST, name ASC`

	rows, err := DB.Query(query, merchantID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch menu")
		return
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(
			&item.ID, &item.MerchantID, &item.Name, &item.Description, &item.Image,
			&item.Price, &item.DiscountedPrice, &item.Section, &item.InStock,
			&item.IsActive, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	respondOK(c, "OK", gin.H{"items": items})
}

func scanMerchant(rows *sql.Rows) (models.Merchant, error) {
	var m models.Merchant
	err := rows.Scan(
		&m.ID, &m.Name, &m.Description, &m.Logo, &m.CoverImage, &m.Phone,
		&m.City, &m.Quartier, &m.Tags, &m.DeliveryFee, &m.MinOrderAmount,
		&m.Rating, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}
