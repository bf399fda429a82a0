package main

import (
	"log"
	"os"

	"dispensary_admin/handlers"
	"dispensary_admin/models"
	"dispensary_admin/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDatabase() (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")
	switch os.Getenv("DB_DRIVER") {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		if dsn == "" {
			dsn = "file:dispensary.db?cache=shared"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}

func main() {
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Discount{},
		&models.Redemption{},
		&models.MenuProduct{},
		&models.MenuCategory{},
		&models.PendingChange{},
		&models.PublishLogEntry{},
		&models.MenuSnapshot{},
		&models.SubscriptionTier{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	discountService := services.NewDiscountService(db)
	menuService := services.NewMenuService(db)
	pricingService := services.NewPricingService(discountService)
	tierService := services.NewTierService(db)

	r := gin.Default()
	discountHandler := handlers.NewDiscountHandler(discountService)
	menuHandler := handlers.NewMenuHandler(menuService)
	checkoutHandler := handlers.NewCheckoutHandler(discountService, pricingService)
	tierHandler := handlers.NewTierHandler(tierService)

	discountRoutes := r.Group("/discounts")
	{
		discountRoutes.POST("", discountHandler.CreateDiscount)
		discountRoutes.GET("", discountHandler.ListDiscounts)
		discountRoutes.GET("/:id", discountHandler.GetDiscount)
		discountRoutes.PUT("/:id", discountHandler.UpdateDiscount)
		discountRoutes.DELETE("/:id", discountHandler.DeleteDiscount)
		discountRoutes.PUT("/:id/disabled", discountHandler.SetDisabled)
	}

	checkoutRoutes := r.Group("/checkout")
	{
		checkoutRoutes.POST("/validate-code", checkoutHandler.ValidateCode)
		checkoutRoutes.POST("/quote", checkoutHandler.Quote)
		checkoutRoutes.POST("/redeem", checkoutHandler.Redeem)
	}

	menuRoutes := r.Group("/menu")
	{
		menuRoutes.GET("/products", menuHandler.ListProducts)
		menuRoutes.POST("/products", menuHandler.CreateProduct)
		menuRoutes.PUT("/products/:id", menuHandler.UpdateProduct)
		menuRoutes.DELETE("/products/:id", menuHandler.DeleteProduct)
		menuRoutes.PUT("/products/:id/active", menuHandler.SetProductActive)
		menuRoutes.GET("/categories", menuHandler.ListCategories)
		menuRoutes.POST("/categories", menuHandler.CreateCategory)
		menuRoutes.PUT("/categories/:id", menuHandler.UpdateCategory)
		menuRoutes.DELETE("/categories/:id", menuHandler.DeleteCategory)
		menuRoutes.GET("/changes", menuHandler.ListPendingChanges)
		menuRoutes.POST("/publish", menuHandler.Publish)
		menuRoutes.POST("/discard", menuHandler.Discard)
		menuRoutes.GET("/publish-log", menuHandler.ListPublishLog)
	}

	tierRoutes := r.Group("/tiers")
	{
		tierRoutes.POST("", tierHandler.CreateTier)
		tierRoutes.GET("", tierHandler.ListTiers)
		tierRoutes.PUT("/:id", tierHandler.UpdateTier)
		tierRoutes.DELETE("/:id", tierHandler.DeleteTier)
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
