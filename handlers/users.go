package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"wajba-server/models"
	"wajba-server/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func GetUserProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	query := `SELECT id, email, phone, full_name, avatar, is_active, created_at, updated_at
	          FROM users WHERE id = $1`

	err := DB.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.Phone, &user.FullName,
		&user.Avatar, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}

	respondOK(c, "OK", user)
}

func UpdateUserProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		FullName *string `json:"full_name,omitempty"`
		Email    *string `json:"email,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Build dynamic update query
	query := "UPDATE users SET "
	args := []interface{}{}
	argIndex := 1

	if req.FullName != nil {
		query += "full_name = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.FullName)
		argIndex++
	}

	if req.Email != nil {
		query += "email = $" + strconv.Itoa(argIndex) + ", "
		args = append(args, *req.Email)
		argIndex++
	}

	if len(args) == 0 {
		respondError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	// Remove trailing comma and add WHERE clause
	query = query[:len(query)-2] + ", updated_at = now() WHERE id = $" + strconv.Itoa(argIndex)
	args = append(args, userID)

	if _, err := DB.Exec(query, args...); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user profile")
		return
	}

	var user models.User
	fetchQuery := `SELECT id, email, phone, full_name, avatar, is_active, created_at, updated_at
	               FROM users WHERE id = $1`
	err := DB.QueryRow(fetchQuery, userID).Scan(
		&user.ID, &user.Email, &user.Phone, &user.FullName,
		&user.Avatar, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}

	respondOK(c, "Profile updated successfully", user)
}

// Change the authenticated user's password
func ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if len(req.NewPassword) < 6 {
		respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	var passwordHash sql.NullString
	err := DB.QueryRow(`SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&passwordHash)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !passwordHash.Valid ||
		bcrypt.CompareHashAndPassword([]byte(passwordHash.String), []byte(req.CurrentPassword)) != nil {
		respondError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	_, err = DB.Exec(`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		string(newHash), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	respondOK(c, "Password changed successfully", nil)
}

// Upload a custom avatar image and store its hosted URL
func UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if services.Cloudinary == nil {
		respondError(c, http.StatusInternalServerError, "Image uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Avatar image is required")
		return
	}

	// 5 MB cap, same limit the mobile client enforces
	if fileHeader.Size > 5*1024*1024 {
		respondError(c, http.StatusBadRequest, "Avatar image must be under 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read avatar image")
		return
	}
	defer file.Close()

	result, err := services.Cloudinary.UploadImage(file, "avatars")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upload avatar")
		return
	}

	_, err = DB.Exec(`UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`,
		result.SecureURL, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save avatar")
		return
	}

	respondOK(c, "Avatar updated successfully", gin.H{"avatar": result.SecureURL})
}
