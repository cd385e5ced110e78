package webpath

const (
	Home   = "/"
	Login  = "/login"
	Logout = "/logout"

	Dashboard = "/dashboard"
	Admin     = "/admin"

	Account               = "/account"
	AccountProfile        = Account + "/profile"
	AccountChangePassword = Account + "/change-password"

	Api                       = "/api"
	ApiAccountProfile         = Api + AccountProfile
	ApiAccountChangePassword  = Api + AccountChangePassword
	ApiAdminUsers             = Api + "/admin/users"
	ApiAdminUser              = ApiAdminUsers + "/:id"
	ApiAdminUserResetPassword = ApiAdminUser + "/reset-password"
	ApiActivities             = Api + "/activities"
	ApiActivity               = ApiActivities + "/:id"

	Assets = "/assets"
)

func Path() map[string]string {
	return map[string]string{
		"Home":                     Home,
		"Login":                    Login,
		"Logout":                   Logout,
		"Dashboard":                Dashboard,
		"Admin":                    Admin,
		"AccountProfile":           AccountProfile,
		"AccountChangePassword":    AccountChangePassword,
		"ApiAccountProfile":        ApiAccountProfile,
		"ApiAccountChangePassword": ApiAccountChangePassword,
		"ApiAdminUsers":            ApiAdminUsers,
		"ApiActivities":            ApiActivities,
	}
}
