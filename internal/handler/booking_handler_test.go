package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/application"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/auth"
)

type handlerFixture struct {
	router     *gin.Engine
	jwtManager *auth.JWTManager
}

// newHandlerFixture wires the booking routes with real auth middleware.
// The service is constructed without backing stores, so only requests
// rejected at the transport layer are exercised here.
func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := application.NewBookingService(nil, nil, nil, nil, nil, nil, zap.NewNop(), time.Hour)

	router := gin.New()
	NewBookingHandler(svc).RegisterRoutes(&router.RouterGroup, jwtManager)

	return &handlerFixture{router: router, jwtManager: jwtManager}
}

func (f *handlerFixture) token(t *testing.T, role auth.Role) string {
	t.Helper()
	token, err := f.jwtManager.Generate(uuid.New(), role)
	require.NoError(t, err)
	return token
}

func (f *handlerFixture) post(t *testing.T, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateBooking_RejectsUnknownFields(t *testing.T) {
	f := newHandlerFixture(t)

	body := `{"vehicle_idd":"` + uuid.NewString() + `","rental_period":"daily","duration":3}`
	rec := f.post(t, "/api/v1/bookings", f.token(t, auth.RoleRenter), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "vehicle_idd")
}

func TestCreateBooking_RejectsMalformedJSON(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.post(t, "/api/v1/bookings", f.token(t, auth.RoleRenter), `{"vehicle_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_RequiresToken(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.post(t, "/api/v1/bookings", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartBooking_RejectsReturnOnlyFields(t *testing.T) {
	f := newHandlerFixture(t)
	path := "/api/v1/bookings/" + uuid.NewString() + "/start"
	token := f.token(t, auth.RoleStaff)

	t.Run("damages", func(t *testing.T) {
		rec := f.post(t, path, token, `{"condition":"good","damages":"scratched panel"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("extra charges", func(t *testing.T) {
		rec := f.post(t, path, token, `{"condition":"good","extra_charges_paise":5000}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStartBooking_RejectsUnknownFields(t *testing.T) {
	f := newHandlerFixture(t)
	path := "/api/v1/bookings/" + uuid.NewString() + "/start"

	rec := f.post(t, path, f.token(t, auth.RoleStaff), `{"condition":"good","damagess":"typo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
