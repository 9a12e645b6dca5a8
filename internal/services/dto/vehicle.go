package dto

type CreateVehicleRequest struct {
	RCNumber     string   `json:"rcNumber" validate:"required"`
	RCPhoto      *string  `json:"rcPhoto"`
	ImageIDs     []string `json:"imageIds" validate:"omitempty,dive,required"`
	VehicleType  string   `json:"vehicleType"`
	BodyType     string   `json:"bodyType"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year" validate:"omitempty,min=1900,max=2100"`
	LoadCapacity float64  `json:"loadCapacity" validate:"omitempty,min=0"`
	Length       float64  `json:"length" validate:"omitempty,min=0"`
	Height       float64  `json:"height" validate:"omitempty,min=0"`
}

// UpdateVehicleRequest - nil поля не меняются;
// rcPhoto=null сохраняет текущее фото, пустой imageIds сохраняет текущий список
type UpdateVehicleRequest struct {
	RCNumber     *string  `json:"rcNumber" validate:"omitempty,min=1"`
	RCPhoto      *string  `json:"rcPhoto"`
	ImageIDs     []string `json:"imageIds" validate:"omitempty,dive,required"`
	VehicleType  *string  `json:"vehicleType"`
	BodyType     *string  `json:"bodyType"`
	Make         *string  `json:"make"`
	Model        *string  `json:"model"`
	Year         *int     `json:"year" validate:"omitempty,min=1900,max=2100"`
	LoadCapacity *float64 `json:"loadCapacity" validate:"omitempty,min=0"`
	Length       *float64 `json:"length" validate:"omitempty,min=0"`
	Height       *float64 `json:"height" validate:"omitempty,min=0"`
}
