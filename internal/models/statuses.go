package models

type UserType string
type VehicleStatus string
type BookingStatus string
type PaymentStatus string
type MediaType string
type OTPChannel string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeDriver   UserType = "driver"
	UserTypeAdmin    UserType = "admin"

	VehicleStatusPending  VehicleStatus = "pending"
	VehicleStatusApproved VehicleStatus = "approved"
	VehicleStatusRejected VehicleStatus = "rejected"

	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"

	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"

	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeFile  MediaType = "file"

	OTPChannelMobile OTPChannel = "mobile"
	OTPChannelEmail  OTPChannel = "email"
)

// IsValid проверяет, что тип пользователя известен
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeCustomer, UserTypeDriver, UserTypeAdmin:
		return true
	}
	return false
}
