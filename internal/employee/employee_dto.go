package employee

type CreateEmployeeRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Role      string  `json:"role" binding:"omitempty,oneof=employee manager hr admin"`
	Position  *string `json:"position" binding:"omitempty,max=120"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
}

type BulkCreateEmployeesRequest struct {
	Employees []CreateEmployeeRequest `json:"employees" binding:"required,min=1,max=500,dive"`
}

// UpdateEmployeeRequest applies only the fields present. An empty
// manager_id detaches the employee from their manager.
type UpdateEmployeeRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	Role      *string `json:"role" binding:"omitempty,oneof=employee manager hr admin"`
	Position  *string `json:"position" binding:"omitempty,max=120"`
	ManagerID *string `json:"manager_id"`
}

type EmployeeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Position  *string `json:"position,omitempty"`
	ManagerID *string `json:"manager_id,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type EmployeeOptionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
