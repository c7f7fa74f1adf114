package models

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Total   int         `json:"total,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func ListResponse(data interface{}, total int) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Total:   total,
	}
}

// ConfirmationResponse is the body returned by the booking confirmation
// function.
type ConfirmationResponse struct {
	Success   bool     `json:"success"`
	Booking   *Booking `json:"booking,omitempty"`
	EmailSent bool     `json:"emailSent"`
	Message   string   `json:"message,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// BookingLists is the partitioned view of a user's bookings.
type BookingLists struct {
	Upcoming []Booking `json:"upcoming"`
	Past     []Booking `json:"past"`
}

type DashboardStats struct {
	TotalBookings     int `json:"totalBookings"`
	PendingBookings   int `json:"pendingBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	CancelledBookings int `json:"cancelledBookings"`
	CompletedBookings int `json:"completedBookings"`
	UpcomingBookings  int `json:"upcomingBookings"`
}
