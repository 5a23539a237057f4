package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "venta:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Crear Venta"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "Ver Usuarios"},
	{Code: "user:create", Name: "Crear Usuario"},
	{Code: "user:update", Name: "Actualizar Usuario"},
	{Code: "user:delete", Name: "Eliminar Usuario"},
	// Ingredient catalog
	{Code: "ingrediente:view", Name: "Ver Ingredientes"},
	{Code: "ingrediente:create", Name: "Crear Ingrediente"},
	{Code: "ingrediente:update", Name: "Actualizar Ingrediente"},
	{Code: "ingrediente:delete", Name: "Eliminar Ingrediente"},
	// Recipes
	{Code: "receta:view", Name: "Ver Recetas"},
	{Code: "receta:create", Name: "Crear Receta"},
	{Code: "receta:update", Name: "Actualizar Receta"},
	{Code: "receta:delete", Name: "Eliminar Receta"},
	// Products
	{Code: "producto:view", Name: "Ver Productos"},
	{Code: "producto:create", Name: "Crear Producto"},
	{Code: "producto:update", Name: "Actualizar Producto"},
	{Code: "producto:delete", Name: "Eliminar Producto"},
	// Inventory ledger
	{Code: "inventario:view", Name: "Ver Inventario"},
	{Code: "inventario:restock", Name: "Reabastecer Inventario"},
	{Code: "inventario:merma", Name: "Registrar Merma"},
	// Sales and receipts
	{Code: "venta:view", Name: "Ver Ventas"},
	{Code: "venta:create", Name: "Crear Venta"},
	{Code: "venta:anular", Name: "Anular Venta"},
	{Code: "comanda:print", Name: "Imprimir Comanda"},
	// Reporting
	{Code: "reporte:view", Name: "Ver Reportes"},
	{Code: "dashboard:view", Name: "Ver Dashboard"},
}
