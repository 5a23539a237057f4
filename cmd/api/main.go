package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-resto-backend/internal/handler"
	"go-resto-backend/internal/middleware"
	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/internal/service"
	"go-resto-backend/internal/ws"
	"go-resto-backend/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Ingredient{}, &model.CostHistory{},
		&model.Recipe{}, &model.RecipeItem{},
		&model.Product{},
		&model.RestockEvent{}, &model.WasteEvent{},
		&model.Sale{}, &model.SaleItem{},
		&model.Receipt{},
	)

	// 3. Seed default privileges, roles, admin user and demo data
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	receiptRepo := repository.NewReceiptRepo(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo, db)
	ingredientService := service.NewIngredientService(ingredientRepo, recipeService, db)
	productService := service.NewProductService(productRepo)
	inventoryService := service.NewInventoryService(ingredientRepo, productRepo, recipeService, db, wsHub)
	receiptService := service.NewReceiptService(receiptRepo, saleRepo)
	salesService := service.NewSalesService(saleRepo, productRepo, recipeRepo, receiptService, db, wsHub)
	reportService := service.NewReportService(saleRepo, recipeRepo)

	seedDemoData(db, ingredientService, recipeService)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)
	ingredientHandler := handler.NewIngredientHandler(ingredientService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	productHandler := handler.NewProductHandler(productService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	salesHandler := handler.NewSalesHandler(salesService, receiptService)
	reportHandler := handler.NewReportHandler(reportService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Carbon & Cheddar Backend v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), reportHandler.GetDashboardStats)

	// Ingredients
	protected.Get("/ingredientes", middleware.RequirePrivilege("ingrediente:view"), ingredientHandler.GetIngredients)
	protected.Get("/ingredientes/:id", middleware.RequirePrivilege("ingrediente:view"), ingredientHandler.GetIngredient)
	protected.Get("/ingredientes/:id/historial-costos", middleware.RequirePrivilege("ingrediente:view"), ingredientHandler.GetCostHistory)
	protected.Post("/ingredientes", middleware.RequirePrivilege("ingrediente:create"), ingredientHandler.CreateIngredient)
	protected.Put("/ingredientes/:id", middleware.RequirePrivilege("ingrediente:update"), ingredientHandler.UpdateIngredient)
	protected.Delete("/ingredientes/:id", middleware.RequirePrivilege("ingrediente:delete"), ingredientHandler.DeleteIngredient)

	// Recipes
	protected.Get("/recetas", middleware.RequirePrivilege("receta:view"), recipeHandler.GetRecipes)
	protected.Get("/recetas/:id", middleware.RequirePrivilege("receta:view"), recipeHandler.GetRecipe)
	protected.Post("/recetas", middleware.RequirePrivilege("receta:create"), recipeHandler.CreateRecipe)
	protected.Post("/recetas/sugerir-precio", middleware.RequirePrivilege("receta:view"), recipeHandler.SuggestPrice)
	protected.Put("/recetas/:id", middleware.RequirePrivilege("receta:update"), recipeHandler.UpdateRecipe)
	protected.Delete("/recetas/:id", middleware.RequirePrivilege("receta:delete"), recipeHandler.DeleteRecipe)
	protected.Post("/recetas/:id/items", middleware.RequirePrivilege("receta:update"), recipeHandler.AddItem)
	protected.Put("/recetas/items/:itemId", middleware.RequirePrivilege("receta:update"), recipeHandler.UpdateItem)
	protected.Delete("/recetas/items/:itemId", middleware.RequirePrivilege("receta:update"), recipeHandler.RemoveItem)

	// Products
	protected.Get("/productos", middleware.RequirePrivilege("producto:view"), productHandler.GetProducts)
	protected.Get("/productos/:id", middleware.RequirePrivilege("producto:view"), productHandler.GetProduct)
	protected.Post("/productos", middleware.RequirePrivilege("producto:create"), productHandler.CreateProduct)
	protected.Put("/productos/:id", middleware.RequirePrivilege("producto:update"), productHandler.UpdateProduct)
	protected.Delete("/productos/:id", middleware.RequirePrivilege("producto:delete"), productHandler.DeleteProduct)

	// Inventory ledger
	protected.Get("/inventario", middleware.RequirePrivilege("inventario:view"), inventoryHandler.GetStock)
	protected.Post("/inventario/reabastecer", middleware.RequirePrivilege("inventario:restock"), inventoryHandler.Restock)
	protected.Post("/inventario/mermas", middleware.RequirePrivilege("inventario:merma"), inventoryHandler.RecordIngredientWaste)
	protected.Post("/mermas", middleware.RequirePrivilege("inventario:merma"), inventoryHandler.RecordProductWaste)

	// Sales and receipts
	protected.Get("/ventas", middleware.RequirePrivilege("venta:view"), salesHandler.ListSales)
	protected.Post("/ventas/crear-con-explosion", middleware.RequirePrivilege("venta:create"), salesHandler.CreateSale)
	protected.Put("/ventas/comanda/:id/marcar-impresa", middleware.RequirePrivilege("comanda:print"), salesHandler.MarkReceiptPrinted)
	protected.Get("/ventas/:id", middleware.RequirePrivilege("venta:view"), salesHandler.GetSale)
	protected.Delete("/ventas/:id", middleware.RequirePrivilege("venta:anular"), salesHandler.CancelSale)
	protected.Get("/ventas/:id/comanda/:tipo", middleware.RequirePrivilege("venta:view"), salesHandler.GetReceipt)

	// Reporting
	protected.Get("/reportes/ventas-diarias", middleware.RequirePrivilege("reporte:view"), reportHandler.GetDailySales)
	protected.Get("/reportes/mermas", middleware.RequirePrivilege("reporte:view"), reportHandler.GetWasteReport)
	protected.Get("/reportes/rentabilidad", middleware.RequirePrivilege("reporte:view"), reportHandler.GetRecipeProfitability)

	// User management
	protected.Get("/usuarios", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/usuarios/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/usuarios", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/usuarios/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/usuarios/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/usuarios/:id/privileges", middleware.RequirePrivilege("user:update"), userHandler.UpdateUserPrivileges)

	// Roles and privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privilegios", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets everything
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
	}

	// MANAGER runs the kitchen and inventory but not user accounts
	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		managerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code == "user:create" || p.Code == "user:update" || p.Code == "user:delete" {
				continue
			}
			managerPrivileges = append(managerPrivileges, p)
		}
		db.Model(&managerRole).Association("Privileges").Replace(managerPrivileges)
	}

	// CAJERO sells and prints
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		cashierCodes := map[string]bool{
			"venta:view": true, "venta:create": true, "comanda:print": true,
			"producto:view": true, "receta:view": true, "dashboard:view": true,
		}
		cashierPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if cashierCodes[p.Code] {
				cashierPrivileges = append(cashierPrivileges, p)
			}
		}
		db.Model(&cashierRole).Association("Privileges").Replace(cashierPrivileges)
	}

	_, err = userRepo.FindByEmail("admin@carbonycheddar.com")
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:      "admin@carbonycheddar.com",
			FullName:   "Administrador",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@carbonycheddar.com / admin123")
		}
	}
}

// seedDemoData loads a starter ingredient and recipe on an empty catalog
func seedDemoData(db *gorm.DB, ingredients service.IngredientService, recipes service.RecipeService) {
	existing, err := ingredients.GetAllIngredients()
	if err != nil || len(existing) > 0 {
		return
	}

	beef := &model.Ingredient{
		Name:     "Carne molida",
		Unit:     "kg",
		UnitCost: 12.00,
		Stock:    10,
	}
	if err := ingredients.CreateIngredient(beef, "system"); err != nil {
		log.Printf("Warning: Failed to seed demo ingredient: %v", err)
		return
	}

	burger := &model.Recipe{
		Name:         "Hamburguesa Clásica",
		PortionYield: 1,
		SalePrice:    8.50,
	}
	if err := recipes.CreateRecipe(burger, "system"); err != nil {
		log.Printf("Warning: Failed to seed demo recipe: %v", err)
		return
	}

	if _, err := recipes.AddItem(burger.ID, &service.RecipeItemRequest{
		IngredientID: &beef.ID,
		Quantity:     0.15,
	}); err != nil {
		log.Printf("Warning: Failed to seed demo recipe line: %v", err)
	}
}
