package handler

import (
	"math"

	"github.com/brechoria/brecho-api/internal/domain/entity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the operator ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the operator email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetUserRole extracts the operator role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	return role.(string)
}

// IsAdmin checks if the operator has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == entity.RoleAdmin
}

// toCents converts a decimal request amount to cents. Rounding guards
// against float noise like 19.999999 for 20.00.
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// toCentsPtr converts an optional decimal amount to cents
func toCentsPtr(v *float64) *int64 {
	if v == nil {
		return nil
	}
	cents := toCents(*v)
	return &cents
}
