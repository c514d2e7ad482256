package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStats(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewProductBuilder().WithCategory("ipod").Build(t, ts.DB.DB)
	testutil.NewProductBuilder().WithCategory("headphones").Build(t, ts.DB.DB)
	testutil.NewUserBuilder().Build(t, ts.DB.DB)
	testutil.NewUserBuilder().Inactive().Build(t, ts.DB.DB)
	_, token := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/admin/stats"), nil, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Products struct {
			Total int64 `json:"total"`
		} `json:"products"`
		Users struct {
			Total  int `json:"total"`
			Admins int `json:"admins"`
			Active int `json:"active"`
		} `json:"users"`
	}
	testutil.AssertJSONResponse(t, resp, &stats)
	assert.EqualValues(t, 2, stats.Products.Total)
	assert.Equal(t, 3, stats.Users.Total)
	assert.Equal(t, 1, stats.Users.Admins)
	assert.Equal(t, 2, stats.Users.Active)
}

func TestAdminUsers(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewUserBuilder().WithEmail("shopper@example.com").Build(t, ts.DB.DB)
	_, token := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/admin/users"), nil, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := testutil.ReadBody(t, resp)
	assert.Contains(t, body, "shopper@example.com")
	assert.NotContains(t, body, "$2a$", "user listing must never expose password hashes")
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	t.Run("regular user", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/admin/users"), nil, token)
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "forbidden")
	})

	t.Run("no token", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/admin/users"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// Role changes and deactivation must take effect on the very next
// request, not when the token expires.
func TestRoleChangeAppliesToLiveToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)

	// A fresh customer registers and logs in.
	register := postJSON(t, ts.APIURL("/auth/register"), map[string]string{
		"email":    "promoted@example.com",
		"password": "hunter2x",
		"name":     "Soon-to-be Admin",
	})
	register.Body.Close()
	require.Equal(t, http.StatusCreated, register.StatusCode)

	userToken := testutil.Login(t, ts, "promoted@example.com", "hunter2x")

	// Their token does not open the admin surface.
	before := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/admin/stats"), nil, userToken)
	before.Body.Close()
	assert.Equal(t, http.StatusForbidden, before.StatusCode)

	// Find their id and promote them.
	var profile domain.User
	profileResp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/profile"), nil, userToken)
	testutil.AssertJSONResponse(t, profileResp, &profile)
	profileResp.Body.Close()

	promote := testutil.DoAuthenticatedRequest(t, http.MethodPut,
		ts.APIURL(fmt.Sprintf("/admin/users/%d/role", profile.ID)),
		map[string]string{"role": "admin"}, adminToken)
	promote.Body.Close()
	require.Equal(t, http.StatusOK, promote.StatusCode)

	// The same token now opens the admin surface.
	after := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/admin/stats"), nil, userToken)
	after.Body.Close()
	assert.Equal(t, http.StatusOK, after.StatusCode)
}

func TestDeactivationAppliesToLiveToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)
	user, userToken := testutil.NewUserBuilder().WithEmail("banned@example.com").BuildAndLogin(t, ts)

	// Works before deactivation.
	before := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/profile"), nil, userToken)
	before.Body.Close()
	require.Equal(t, http.StatusOK, before.StatusCode)

	deactivate := testutil.DoAuthenticatedRequest(t, http.MethodPut,
		ts.APIURL(fmt.Sprintf("/admin/users/%d/active", user.ID)),
		map[string]bool{"isActive": false}, adminToken)
	deactivate.Body.Close()
	require.Equal(t, http.StatusOK, deactivate.StatusCode)

	// The unexpired token is rejected on the very next request.
	after := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/profile"), nil, userToken)
	defer after.Body.Close()
	testutil.AssertErrorResponse(t, after, http.StatusUnauthorized, "invalid or expired token")
}

func TestAdminSetRole(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)
	user, _ := testutil.NewUserBuilder().WithEmail("target@example.com").Build(t, ts.DB.DB)

	t.Run("unknown role", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodPut,
			ts.APIURL(fmt.Sprintf("/admin/users/%d/role", user.ID)),
			map[string]string{"role": "superuser"}, adminToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodPut,
			ts.APIURL("/admin/users/99999/role"),
			map[string]string{"role": "admin"}, adminToken)
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "user not found")
	})

	t.Run("valid promotion", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodPut,
			ts.APIURL(fmt.Sprintf("/admin/users/%d/role", user.ID)),
			map[string]string{"role": "admin"}, adminToken)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			User *domain.User `json:"user"`
		}
		testutil.AssertJSONResponse(t, resp, &body)
		require.NotNil(t, body.User)
		assert.Equal(t, domain.RoleAdmin, body.User.Role)
	})
}

func TestAdminSetActive_MissingFlag(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).BuildAndLogin(t, ts)
	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPut,
		ts.APIURL(fmt.Sprintf("/admin/users/%d/active", user.ID)),
		map[string]string{}, adminToken)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "isActive is required")
}

func TestAdminChangePassword(t *testing.T) {
	ts := testutil.NewTestServer(t)

	admin, password := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).WithEmail("root@example.com").Build(t, ts.DB.DB)
	token := testutil.Login(t, ts, admin.Email, password)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/admin/change-admin-password"),
		map[string]string{"currentPassword": password, "newPassword": "rotated-secret1"}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	testutil.Login(t, ts, admin.Email, "rotated-secret1")
}
