package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"arsip-dlh-api/config"
	"arsip-dlh-api/models"
	"arsip-dlh-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUsers lists users with role and bidang
func GetUsers(c *gin.Context) {
	page, perPage := paginationParams(c)

	query := config.DB.Model(&models.User{})
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR nip LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	var users []models.User
	if err := query.Preload("Role").Preload("Bidang").
		Order("name").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":    users,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// GetUser returns one user
func GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Preload("Role").Preload("Bidang").First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UserRequest struct {
	NIP      *string `json:"nip"`
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Jabatan  *string `json:"jabatan"`
	Password string  `json:"password" binding:"required,min=6"`
	Role     string  `json:"role"`
	BidangID *int    `json:"bidang_id"`
}

// CreateUser creates a user, hashing the password and resolving the role by
// name. When MAIL_NEW_USER=1 the credentials are mailed to the new account.
func CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var taken int64
	if err := config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&taken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
		return
	}
	if taken > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Email already in use",
			"errors": gin.H{"email": []string{"The email has already been taken."}},
		})
		return
	}

	roleName := req.Role
	if roleName == "" {
		roleName = models.RolePegawai
	}
	role, err := findOrCreateRole(roleName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		NIP:      req.NIP,
		Name:     req.Name,
		Email:    req.Email,
		Jabatan:  req.Jabatan,
		Password: hashed,
		RoleID:   role.ID,
		BidangID: req.BidangID,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	user.Role = *role

	services.LogActivity(config.DB, currentUserID(c), services.ActionUserCreated, nil,
		fmt.Sprintf("created user %s", user.Email))

	if os.Getenv("MAIL_NEW_USER") == "1" && config.MailEnabled() {
		html := fmt.Sprintf(
			"<p>Halo %s,</p><p>Akun Arsip DLH Anda telah dibuat.</p><p>Email: %s<br>Password: %s</p>",
			user.Name, user.Email, req.Password,
		)
		if err := config.SendMail([]string{user.Email}, "Akun Arsip DLH", html); err != nil {
			log.Printf("Warning: failed to send credential mail to %s: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

// UpdateUser applies a partial update
func UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	type UpdateRequest struct {
		NIP      *string `json:"nip"`
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Jabatan  *string `json:"jabatan"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
		BidangID *int    `json:"bidang_id"`
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email != nil && *req.Email != user.Email {
		var taken int64
		if err := config.DB.Model(&models.User{}).
			Where("email = ? AND id <> ?", *req.Email, user.ID).
			Count(&taken).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
			return
		}
		if taken > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Email already in use",
				"errors": gin.H{"email": []string{"The email has already been taken."}},
			})
			return
		}
		user.Email = *req.Email
	}
	if req.NIP != nil {
		user.NIP = req.NIP
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Jabatan != nil {
		user.Jabatan = req.Jabatan
	}
	if req.BidangID != nil {
		user.BidangID = req.BidangID
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Password too short",
				"errors": gin.H{"password": []string{"The password must be at least 6 characters."}},
			})
			return
		}
		hashed, err := HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = hashed
	}
	if req.Role != nil && *req.Role != "" {
		role, err := findOrCreateRole(*req.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return
		}
		user.RoleID = role.ID
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	services.LogActivity(config.DB, currentUserID(c), services.ActionUserUpdated, nil,
		fmt.Sprintf("updated user %s", user.Email))

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// DeleteUser removes a user; self-deletion is rejected
func DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if id == currentUserID(c) {
		c.JSON(http.StatusConflict, gin.H{"error": "You cannot delete your own account"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	services.LogActivity(config.DB, currentUserID(c), services.ActionUserDeleted, nil,
		fmt.Sprintf("deleted user %s", user.Email))

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// findOrCreateRole resolves a role by name, creating it on first use so a
// fresh database does not need a separate migration step for roles.
func findOrCreateRole(name string) (*models.Role, error) {
	var role models.Role
	err := config.DB.Where("name = ?", name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = models.Role{Name: name}
	if err := config.DB.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
