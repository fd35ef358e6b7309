package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"wajba-server/config"
	"wajba-server/models"
	"wajba-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Check if user exists by phone number
func CheckUserExists(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		respondError(c, http.StatusBadRequest, "Phone number is required")
		return
	}

	// Validate phone number (8 digits)
	if len(phone) != 8 {
		respondError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`
	err := DB.QueryRow(query, phone).Scan(&exists)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, "OK", gin.H{
		"exists": exists,
		"phone":  phone,
	})
}

// User login
func LoginUser(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if len(req.Phone) != 8 {
		respondError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var user models.User
	query := `SELECT id, phone, full_name, password_hash, avatar, is_active, created_at
	          FROM users WHERE phone = $1`
	err := DB.QueryRow(query, req.Phone).Scan(
		&user.ID, &user.Phone, &user.FullName, &user.PasswordHash,
		&user.Avatar, &user.IsActive, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		respondError(c, http.StatusUnauthorized, "Invalid phone or password")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !user.IsActive {
		respondError(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	if user.PasswordHash == nil {
		respondError(c, http.StatusUnauthorized, "Invalid phone or password")
		return
	}
	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid phone or password")
		return
	}

	phoneStr := ""
	if user.Phone != nil {
		phoneStr = *user.Phone
	}
	token, err := generateJWT(user.ID.String(), phoneStr)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondOK(c, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// User registration
func RegisterUser(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if len(req.Phone) != 8 {
		respondError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Minimum 6 characters
	if len(req.Password) < 6 {
		respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if len(strings.TrimSpace(req.Name)) < 2 {
		respondError(c, http.StatusBadRequest, "Name must be at least 2 characters")
		return
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`
	err := DB.QueryRow(checkQuery, req.Phone).Scan(&exists)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if exists {
		respondError(c, http.StatusConflict, "User already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	userID := generateUUID()
	avatar := utils.GenerateAvatarURL(req.Name)
	insertQuery := `INSERT INTO users (id, phone, full_name, password_hash, avatar, is_active, created_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = DB.Exec(insertQuery,
		userID, req.Phone, req.Name, string(hashedPassword), avatar, true, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := generateJWT(userID, req.Phone)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondCreated(c, "Registration successful", gin.H{
		"user": gin.H{
			"id":         userID,
			"phone":      req.Phone,
			"full_name":  req.Name,
			"avatar":     avatar,
			"is_active":  true,
			"created_at": time.Now(),
		},
		"token": token,
	})
}

// Logout user (client-side token removal)
func LogoutUser(c *gin.Context) {
	respondOK(c, "Logout successful", nil)
}

// ValidateToken validates a JWT token
func ValidateToken(c *gin.Context) {
	claims, ok := parseBearerToken(c)
	if !ok {
		return
	}

	respondOK(c, "Token is valid", gin.H{
		"valid":   true,
		"user_id": claims.UserID,
		"phone":   claims.Phone,
	})
}

// AuthMiddleware validates JWT tokens and puts the user id in context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c)
		if !ok {
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_phone", claims.Phone)
		c.Next()
	}
}

// parseBearerToken extracts and verifies the Authorization header. On
// failure it writes the 401 response and returns ok=false.
func parseBearerToken(c *gin.Context) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		respondError(c, http.StatusUnauthorized, "Authorization header required")
		return nil, false
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		respondError(c, http.StatusUnauthorized, "Invalid authorization format")
		return nil, false
	}
	tokenString := authHeader[7:]

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		respondError(c, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}

	return claims, true
}

// currentUserID reads the authenticated user's id set by AuthMiddleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, false
	}
	return id, true
}

// Update user push token; an empty token disables notifications
func UpdatePushToken(c *gin.Context) {
	var req struct {
		PushToken string `json:"push_token"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var pushTokenValue interface{}
	if req.PushToken != "" {
		pushTokenValue = req.PushToken
	}

	query := `UPDATE users SET push_token = $1, updated_at = now() WHERE id = $2`
	_, err := DB.Exec(query, pushTokenValue, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update push token")
		return
	}

	if req.PushToken == "" {
		respondOK(c, "Notifications disabled successfully", nil)
		return
	}
	respondOK(c, "Push token updated successfully", nil)
}
