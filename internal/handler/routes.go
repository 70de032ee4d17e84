package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/pkg/rbac"
)

// Handlers groups every HTTP handler of the service.
type Handlers struct {
	Auth     *AuthHandler
	Company  *CompanyHandler
	Employee *EmployeeHandler
	Role     *RoleHandler
	Session  *SessionHandler
	Setup    *SetupHandler
	Health   *HealthHandler
	JWKS     *JWKSHandler
}

// Guards builds the middleware that protects the routes.
type Guards struct {
	// Authenticated accepts a token of any listed class, or of any class
	// when none is listed.
	Authenticated func(classes ...domain.ActorClass) fiber.Handler
	// Capability requires a feature capability of the caller.
	Capability func(featureKey string, action rbac.Action) fiber.Handler
}

func SetupRoutes(app *fiber.App, h Handlers, g Guards) {
	// Health checks (public)
	app.Get("/health", h.Health.Health)
	app.Get("/ready", h.Health.Ready)
	app.Get("/.well-known/jwks.json", h.JWKS.GetJWKS)

	api := app.Group("/api/v1")

	api.Post("/setup/admin", h.Setup.CreateAdmin)

	// Guards are attached per route: group middleware matches by plain path
	// prefix, and /employee is a prefix of /employees.
	asAdmin := g.Authenticated(domain.ActorAdmin)
	asCompany := g.Authenticated(domain.ActorCompany)
	asEmployee := g.Authenticated(domain.ActorEmployee)
	asStaff := g.Authenticated(domain.ActorCompany, domain.ActorEmployee)
	asAnyone := g.Authenticated()

	// Platform admin
	admin := api.Group("/admin")
	admin.Post("/login", h.Auth.Login(domain.ActorAdmin))
	admin.Post("/logout", asAdmin, h.Auth.Logout)
	admin.Get("/profile", asAdmin, h.Auth.Profile)
	admin.Get("/companies", asAdmin, h.Company.List)
	admin.Post("/companies", asAdmin, h.Company.Create)
	admin.Get("/companies/:id", asAdmin, h.Company.Get)
	admin.Put("/companies/:id", asAdmin, h.Company.Update)
	admin.Delete("/companies/:id", asAdmin, h.Company.Delete)

	// Company account
	company := api.Group("/company")
	company.Post("/login", h.Auth.Login(domain.ActorCompany))
	company.Post("/logout", asCompany, h.Auth.Logout)
	company.Get("/profile", asCompany, h.Auth.Profile)
	company.Put("/profile", asCompany, h.Auth.UpdateCompanyProfile)
	company.Get("/roles", asCompany, h.Role.List)
	company.Post("/roles", asCompany, h.Role.Create)
	company.Put("/roles/:id", asCompany, h.Role.Update)
	company.Delete("/roles/:id", asCompany, h.Role.Delete)
	company.Get("/roles/:id/permissions", asCompany, h.Role.Permissions)
	company.Put("/roles/:id/permissions", asCompany, h.Role.SetPermissions)
	company.Post("/employees/:id/roles/:roleId", asCompany, h.Role.Assign)
	company.Delete("/employees/:id/roles/:roleId", asCompany, h.Role.Remove)

	// Employee self service
	employee := api.Group("/employee")
	employee.Post("/login", h.Auth.Login(domain.ActorEmployee))
	employee.Post("/logout", asEmployee, h.Auth.Logout)
	employee.Get("/profile", asEmployee, h.Auth.Profile)
	employee.Put("/profile", asEmployee, h.Auth.UpdateEmployeeProfile)
	employee.Put("/password", asEmployee, h.Auth.ChangePassword)

	// Staff directory, gated by capabilities
	staff := api.Group("/employees")
	staff.Get("/", asStaff, g.Capability(domain.FeatureEmployees, rbac.ActionView), h.Employee.List)
	staff.Post("/", asStaff, g.Capability(domain.FeatureEmployees, rbac.ActionCreate), h.Employee.Create)
	staff.Get("/:id/roles", asStaff, h.Role.EmployeeRoles)
	staff.Get("/:id/permissions", asStaff, h.Role.EmployeePermissions)
	staff.Get("/:id/salary", asStaff, g.Capability(domain.FeatureSalary, rbac.ActionView), h.Employee.Salary)
	staff.Get("/:id", asStaff, g.Capability(domain.FeatureEmployees, rbac.ActionView), h.Employee.Get)
	staff.Put("/:id", asStaff, g.Capability(domain.FeatureEmployees, rbac.ActionEdit), h.Employee.Update)
	staff.Delete("/:id", asStaff, g.Capability(domain.FeatureEmployees, rbac.ActionDelete), h.Employee.Delete)

	// Sessions of the caller
	sessions := api.Group("/sessions/me")
	sessions.Get("/", asAnyone, h.Session.List)
	sessions.Delete("/:id", asAnyone, h.Session.Revoke)
}
