package request

type CreateUser struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Phone    string `json:"phone" validate:"max=30"`
	Address  string `json:"address" validate:"max=300"`
	Role     string `json:"role" validate:"omitempty,oneof=customer admin"`
}

type UpdateUser struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=300"`
}

type UpdateUserRole struct {
	Role string `json:"role" validate:"required,oneof=customer admin"`
}

type UpdateUserLocation struct {
	City      string   `json:"city" validate:"max=100"`
	Country   string   `json:"country" validate:"max=100"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type UpdateUserLanguage struct {
	Language string `json:"language" validate:"required,oneof=es en fr pt"`
}
