package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andressep95/hr-service/pkg/session"
)

type Employee struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	Status      string `json:"status"`
}

type EmployeePage struct {
	Employees []Employee `json:"employees"`
	Total     int        `json:"total"`
}

type EmployeeQuery struct {
	Search     string
	Department string
	Limit      int
	Offset     int
}

type CreateEmployeeRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Salary      string `json:"salary,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// staffToken prefers the company credential for staff management endpoints.
func (c *Client) staffToken(ctx context.Context) string {
	return c.tokenFor(ctx, session.ClassCompany, session.ClassEmployee)
}

func (c *Client) ListEmployees(ctx context.Context, q EmployeeQuery) Result[EmployeePage] {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Department != "" {
		v.Set("department", q.Department)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}

	path := "/api/v1/employees"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	return do[EmployeePage](ctx, c, http.MethodGet, path, c.staffToken(ctx), nil)
}

func (c *Client) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) Result[Employee] {
	return do[Employee](ctx, c, http.MethodPost, "/api/v1/employees", c.staffToken(ctx), req)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) Result[Empty] {
	return do[Empty](ctx, c, http.MethodDelete, "/api/v1/employees/"+url.PathEscape(id), c.staffToken(ctx), nil)
}

// UpdateEmployeeProfile edits the signed-in employee's own profile and returns
// the server's copy.
func (c *Client) UpdateEmployeeProfile(ctx context.Context, req UpdateProfileRequest) Result[session.Profile] {
	return do[session.Profile](ctx, c, http.MethodPut, "/api/v1/employee/profile", c.tokenFor(ctx, session.ClassEmployee), req)
}

func (c *Client) ChangeEmployeePassword(ctx context.Context, req ChangePasswordRequest) Result[Empty] {
	return do[Empty](ctx, c, http.MethodPut, "/api/v1/employee/password", c.tokenFor(ctx, session.ClassEmployee), req)
}
