package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	PostHandler         *PostHandler
	VehicleHandler      *VehicleHandler
	BookingHandler      *BookingHandler
	NotificationHandler *NotificationHandler
	UploadHandler       *UploadHandler
	SystemHandler       *SystemHandler
}
