package leave

type CreateLeaveRequest struct {
	FromDate  string `json:"from_date" binding:"required"`
	ToDate    string `json:"to_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=2000"`
	LeaveType string `json:"leave_type" binding:"omitempty,oneof=sick casual earned unpaid"`
}

// UpdateLeaveRequest is a partial update. Owners may only send the first
// four fields; the rest need update_leave.
type UpdateLeaveRequest struct {
	FromDate   *string `json:"from_date"`
	ToDate     *string `json:"to_date"`
	Reason     *string `json:"reason" binding:"omitempty,max=2000"`
	LeaveType  *string `json:"leave_type" binding:"omitempty,oneof=sick casual earned unpaid"`
	EmployeeID *string `json:"employee_id" binding:"omitempty,uuid"`
	Status     *string `json:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
	ApprovedBy *string `json:"approved_by" binding:"omitempty,uuid"`
	Comments   *string `json:"comments" binding:"omitempty,max=2000"`
}

func (r UpdateLeaveRequest) touchesRestrictedFields() bool {
	return r.EmployeeID != nil || r.Status != nil || r.ApprovedBy != nil || r.Comments != nil
}

type DecisionRequest struct {
	Comments *string `json:"comments" binding:"omitempty,max=2000"`
}

type ListQuery struct {
	Status     string
	EmployeeID string
}

type LeaveResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name,omitempty"`
	FromDate         string  `json:"from_date"`
	ToDate           string  `json:"to_date"`
	Reason           string  `json:"reason"`
	LeaveType        string  `json:"leave_type"`
	Status           string  `json:"status"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	Comments         *string `json:"comments,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	NotificationSent *bool   `json:"notification_sent,omitempty"`
}
