// Seeds the baseline reference data a fresh install needs: roles, the two
// standing bidang, starter categories, and an admin account. Safe to run
// repeatedly; existing rows are left alone.
package main

import (
	"log"
	"os"

	"arsip-dlh-api/config"
	"arsip-dlh-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()
	db := config.DB

	if err := config.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	adminRole := seedRole(db, models.RoleAdmin, "Administrator arsip")
	seedRole(db, models.RolePegawai, "Pegawai bidang")

	seedBidang(db, "LH-01", "Tata Ruang Lingkungan Hidup")
	seedBidang(db, "LH-02", "Pencemaran Lingkungan")

	seedCategory(db, "Laporan Tahunan")
	seedCategory(db, "Kebijakan")

	seedAdminUser(db, adminRole)

	log.Println("Seeding completed")
}

func seedRole(db *gorm.DB, name, description string) *models.Role {
	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err == nil {
		return &role
	}

	role = models.Role{Name: name, Description: &description}
	if err := db.Create(&role).Error; err != nil {
		log.Fatalf("Failed to seed role %s: %v", name, err)
	}
	log.Printf("Seeded role %s", name)
	return &role
}

func seedBidang(db *gorm.DB, kode, nama string) {
	var count int64
	if err := db.Model(&models.Bidang{}).Where("kode = ?", kode).Count(&count).Error; err != nil {
		log.Fatalf("Failed to check bidang %s: %v", kode, err)
	}
	if count > 0 {
		return
	}

	bidang := models.Bidang{Kode: kode, Nama: nama}
	if err := db.Create(&bidang).Error; err != nil {
		log.Fatalf("Failed to seed bidang %s: %v", kode, err)
	}
	log.Printf("Seeded bidang %s (%s)", kode, nama)
}

func seedCategory(db *gorm.DB, nama string) {
	var count int64
	if err := db.Model(&models.Category{}).Where("nama = ?", nama).Count(&count).Error; err != nil {
		log.Fatalf("Failed to check category %s: %v", nama, err)
	}
	if count > 0 {
		return
	}

	category := models.Category{Nama: nama}
	if err := db.Create(&category).Error; err != nil {
		log.Fatalf("Failed to seed category %s: %v", nama, err)
	}
	log.Printf("Seeded category %s", nama)
}

func seedAdminUser(db *gorm.DB, adminRole *models.Role) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@dlh.go.id"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Fatalf("Failed to check admin user: %v", err)
	}
	if count > 0 {
		return
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "password"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	user := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		RoleID:   adminRole.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	log.Printf("Seeded admin user %s", email)
}
