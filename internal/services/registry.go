package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	OTPService          OTPService
	UserService         UserService
	PostService         PostService
	VehicleService      VehicleService
	BookingService      BookingService
	NotificationService NotificationService
	UploadService       UploadService
	EmailService        EmailService
}
