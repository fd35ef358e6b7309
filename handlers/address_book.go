package handlers

import (
	"net/http"
	"strconv"
	"time"

	"wajba-server/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetAddressBook gets all addresses for a user
func GetAddressBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := `SELECT id, user_id, label, city, quartier, street, building, floor, apartment,
	          latitude, longitude, is_default, is_active, created_at, updated_at
	          FROM address_book WHERE user_id = $1 AND is_active = true
	          ORDER BY is_default DESC, created_at DESC`

	rows, err := DB.Query(query, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch addresses")
		return
	}
	defer rows.Close()

	addresses := []models.AddressBook{}
	for rows.Next() {
		var addr models.AddressBook
		err := rows.Scan(
			&addr.ID, &addr.UserID, &addr.Label, &addr.City, &addr.Quartier,
			&addr.Street, &addr.Building, &addr.Floor, &addr.Apartment,
			&addr.Latitude, &addr.Longitude, &addr.IsDefault, &addr.IsActive,
			&addr.CreatedAt, &addr.UpdatedAt,
		)
		if err != nil {
			continue
		}
		addresses = append(addresses, addr)
	}

	respondOK(c, "OK", gin.H{"addresses": addresses})
}

// CreateAddress creates a new address
func CreateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Label     string   `json:"label" binding:"required"`
		City      string   `json:"city" binding:"required"`
		Quartier  string   `json:"quartier" binding:"required"`
		Street    *string  `json:"street,omitempty"`
		Building  *string  `json:"building,omitempty"`
		Floor     *string  `json:"floor,omitempty"`
		Apartment *string  `json:"apartment,omitempty"`
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
		IsDefault bool     `json:"is_default"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	// If this is set as default, unset other defaults
	if req.IsDefault {
		if _, err := DB.Exec("UPDATE address_book SET is_default = false WHERE user_id = $1", userID); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update existing defaults")
			return
		}
	}

	addressID := uuid.New()
	now := time.Now()

	query := `INSERT INTO address_book (id, user_id, label, city, quartier, street, building,
	          floor, apartment, latitude, longitude, is_default, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := DB.Exec(query,
		addressID, userID, req.Label, req.City, req.Quartier,
		req.Street, req.Building, req.Floor, req.Apartment,
		req.Latitude, req.Longitude, req.IsDefault, true, now, now,
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create address")
		return
	}

	respondCreated(c, "Address created successfully", gin.H{"address_id": addressID})
}

// UpdateAddress updates an existing address
func UpdateAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid address ID")
		return
	}

	var req struct {
		Label     *string  `json:"label,omitempty"`
		City      *string  `json:"city,omitempty"`
		Quartier  *string  `json:"quartier,omitempty"`
		Street    *string  `json:"street,omitempty"`
		Building  *string  `json:"building,omitempty"`
		Floor     *string  `json:"floor,omitempty"`
		Apartment *string  `json:"apartment,omitempty"`
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
		IsDefault *bool    `json:"is_default,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	// If this is set as default, unset other defaults
	if req.IsDefault != nil && *req.IsDefault {
		_, err := DB.Exec("UPDATE address_book SET is_default = false WHERE user_id = $1 AND id != $2",
			userID, addressID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update existing defaults")
			return
		}
	}

	// Build dynamic update query
	query := "UPDATE address_book SET "
	args := []interface{}{}
	argIndex := 1

	appendField := func(column string, value interface{}) {
		query += column + " = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, value)
		argIndex++
	}

	if req.Label != nil {
		appendField("label", *req.Label)
	}
	if req.City != nil {
		appendField("city", *req.City)
	}
	if req.Quartier != nil {
		appendField("quartier", *req.Quartier)
	}
	if req.Street != nil {
		appendField("street", *req.Street)
	}
	if req.Building != nil {
		appendField("building", *req.Building)
	}
	if req.Floor != nil {
		appendField("floor", *req.Floor)
	}
	if req.Apartment != nil {
		appendField("apartment", *req.Apartment)
	}
	if req.Latitude != nil {
		appendField("latitude", *req.Latitude)
	}
	if req.Longitude != nil {
		appendField("longitude", *req.Longitude)
	}
	if req.IsDefault != nil {
		appendField("is_default", *req.IsDefault)
	}

	if len(args) == 0 {
		respondError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	query += "updated_at = $" + strconv.Itoa(argIndex) +
		" WHERE id = $" + strconv.Itoa(argIndex+1) +
		" AND user_id = $" + strconv.Itoa(argIndex+2)
	args = append(args, time.Now(), addressID, userID)

	result, err := DB.Exec(query, args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update address")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Address not found")
		return
	}

	respondOK(c, "Address updated successfully", nil)
}

// DeleteAddress soft deletes an address
func DeleteAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid address ID")
		return
	}

	result, err := DB.Exec(
		"UPDATE address_book SET is_active = false, updated_at = $1 WHERE id = $2 AND user_id = $3",
		time.Now(), addressID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete address")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(c, http.StatusNotFound, "Address not found")
		return
	}

	respondOK(c, "Address deleted successfully", nil)
}
