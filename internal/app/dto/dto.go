package dto

// ============ Общие структуры ============

// ErrorResponse — единый формат ошибки API
type ErrorResponse struct {
	Message string `json:"message"`
}

// ============ Аутентификация (Account) ============

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	Roles []string `json:"roles"`
}

type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=50"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role"` // Пусто = RegularUser
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// ============ Пользователи (Admin) ============

type UserResponse struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type EditUserResponse struct {
	User     UserResponse `json:"user"`
	AllRoles []string     `json:"allRoles"`
}

type UpdateUserRolesRequest struct {
	UserID uint     `json:"userId" binding:"required"`
	Roles  []string `json:"roles" binding:"required"`
}

// ============ Продукты (Products) ============

type ProductResponse struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	Allergens     []string `json:"allergens,omitempty"`
	Calories      float64  `json:"calories"`
	Protein       float64  `json:"protein"`
	Carbohydrates float64  `json:"carbohydrates"`
	Fat           float64  `json:"fat"`
	ProducerID    *uint    `json:"producerId,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories" binding:"required,min=1"`
	Allergens     []string `json:"allergens"`
	Calories      float64  `json:"calories" binding:"gte=0"`
	Protein       float64  `json:"protein" binding:"gte=0"`
	Carbohydrates float64  `json:"carbohydrates" binding:"gte=0"`
	Fat           float64  `json:"fat" binding:"gte=0"`
}

type UpdateProductRequest struct {
	ID            uint     `json:"id" binding:"required"`
	Name          string   `json:"name" binding:"required,max=100"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories" binding:"required,min=1"`
	Allergens     []string `json:"allergens"`
	Calories      float64  `json:"calories" binding:"gte=0"`
	Protein       float64  `json:"protein" binding:"gte=0"`
	Carbohydrates float64  `json:"carbohydrates" binding:"gte=0"`
	Fat           float64  `json:"fat" binding:"gte=0"`
}
