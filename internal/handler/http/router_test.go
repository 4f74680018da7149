package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hrm-backend-go/internal/service/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hrm-backend-go/internal/service/leave"
	regularizationService "github.com/cmlabs-hris/hrm-backend-go/internal/service/regularization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ayuID  = "0190b1c4-3f00-7a00-8000-00000000a001"
	budiID = "0190b1c4-3f00-7a00-8000-00000000b002"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	jwt     jwt.Service
	clock   *clock.Fixed
	store   *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	store.AddEmployee(employee.Employee{ID: ayuID, EmployeeCode: "0001-0001", FullName: "Ayu Lestari"})
	store.AddEmployee(employee.Employee{ID: budiID, EmployeeCode: "0001-0002", FullName: "Budi Santoso"})

	clk := &clock.Fixed{T: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	fs, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	fileSvc := file.NewFileService(fs)

	jwtSvc, err := jwt.NewJWTService("handler-test-secret", "1h")
	require.NoError(t, err)

	attendanceSvc := attendanceService.NewAttendanceService(store, store.Attendances(), store.Employees(), clk)
	regularizationSvc := regularizationService.NewRegularizationService(store, store.Regularizations(), store.Attendances(), store.Employees(), fileSvc, clk)
	leaveSvc := leaveService.NewLeaveService(store, store.LeaveRequests(), store.LeaveLedgers(), store.Employees(), fileSvc, clk)

	router := NewRouter(
		RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}, UploadsDir: fs.Dir()},
		jwtSvc,
		NewAttendanceHandler(attendanceSvc, clk),
		NewRegularizationHandler(regularizationSvc),
		NewLeaveHandler(leaveSvc),
	)

	return &testServer{t: t, handler: router, jwt: jwtSvc, clock: clk, store: store}
}

func (s *testServer) token(userID, employeeID string, role user.Role) string {
	s.t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, employeeID, role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(req, token)
}

func (s *testServer) serve(req *http.Request, token string) (int, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/attendance/login", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	code, _ = s.do(http.MethodPost, "/api/v1/attendance/login", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// an admin account without an employee profile cannot mark attendance
	code, env = s.do(http.MethodPost, "/api/v1/attendance/login", s.token("user-admin", "", user.RoleAdmin), nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttendanceRoutes(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token("user-1", ayuID, user.RoleEmployee)

	code, env := s.do(http.MethodPost, "/api/v1/attendance/logout", employeeToken, nil)
	assert.Equal(t, http.StatusPreconditionFailed, code)
	assert.Equal(t, "PRECONDITION_FAILED", env.Error.Code)

	code, env = s.do(http.MethodPost, "/api/v1/attendance/login", employeeToken, nil)
	require.Equal(t, http.StatusOK, code)
	var record struct {
		Date      string `json:"date"`
		Status    string `json:"status"`
		LoginTime string `json:"login_time"`
		Hours     string `json:"total_working_hours"`
	}
	decodeData(t, env, &record)
	assert.Equal(t, "2024-03-14", record.Date)
	assert.Equal(t, "Present", record.Status)
	assert.Equal(t, "09:00:00", record.LoginTime)

	s.clock.Advance(8*time.Hour + 30*time.Minute)
	code, env = s.do(http.MethodPost, "/api/v1/attendance/logout", employeeToken, nil)
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &record)
	assert.Equal(t, "8.50 hours", record.Hours)

	code, env = s.do(http.MethodGet, "/api/v1/attendance/my", employeeToken, nil)
	require.Equal(t, http.StatusOK, code)
	var month struct {
		Month       int `json:"month"`
		PresentDays int `json:"present_days"`
	}
	decodeData(t, env, &month)
	assert.Equal(t, 3, month.Month)
	assert.Equal(t, 1, month.PresentDays)

	code, _ = s.do(http.MethodGet, "/api/v1/attendance/employees/"+ayuID+"?date=2024-03-14", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	managerToken := s.token("user-9", budiID, user.RoleManager)
	code, env = s.do(http.MethodGet, "/api/v1/attendance/employees/"+ayuID+"?date=2024-03-14", managerToken, nil)
	require.Equal(t, http.StatusOK, code)
	decodeData(t, env, &record)
	assert.Equal(t, "09:00:00", record.LoginTime)

	code, _ = s.do(http.MethodGet, "/api/v1/attendance/employees/"+ayuID+"?date=2024-03-15", managerToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodGet, "/api/v1/attendance/employees/"+ayuID+"?year=2024&month=13", managerToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Error.Details, "month")
}

func TestRegularizationRoutes(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token("user-1", ayuID, user.RoleEmployee)
	managerToken := s.token("user-9", budiID, user.RoleManager)

	submit := map[string]string{
		"date":                     "2024-03-13",
		"request_type":             "both",
		"requested_check_in_time":  "09:00:00",
		"requested_check_out_time": "17:30:00",
		"reason":                   "badge reader was offline",
	}

	code, env := s.do(http.MethodPost, "/api/v1/regularizations", employeeToken, submit)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		ID         string `json:"id"`
		EmployeeID string `json:"employee_id"`
		Status     string `json:"status"`
	}
	decodeData(t, env, &created)
	assert.Equal(t, ayuID, created.EmployeeID)
	assert.Equal(t, "pending", created.Status)

	code, env = s.do(http.MethodPost, "/api/v1/regularizations", employeeToken, submit)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, _ = s.do(http.MethodGet, "/api/v1/regularizations/pending", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPut, "/api/v1/regularizations/"+created.ID+"/status", employeeToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, "/api/v1/regularizations/pending", managerToken, nil)
	require.Equal(t, http.StatusOK, code)
	var pending []map[string]any
	decodeData(t, env, &pending)
	assert.Len(t, pending, 1)

	code, env = s.do(http.MethodPut, "/api/v1/regularizations/"+created.ID+"/status", managerToken, map[string]string{"status": "approved", "manager_remark": "verified"})
	require.Equal(t, http.StatusOK, code)
	var decision struct {
		Regularization struct {
			Status     string `json:"status"`
			ApprovedBy string `json:"approved_by"`
		} `json:"regularization"`
		Attendance struct {
			LoginTime  string `json:"login_time"`
			LogoutTime string `json:"logout_time"`
			Hours      string `json:"total_working_hours"`
		} `json:"attendance"`
	}
	decodeData(t, env, &decision)
	assert.Equal(t, "approved", decision.Regularization.Status)
	assert.Equal(t, "user-9", decision.Regularization.ApprovedBy)
	assert.Equal(t, "8.50 hours", decision.Attendance.Hours)

	code, env = s.do(http.MethodPut, "/api/v1/regularizations/"+created.ID+"/status", managerToken, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_PROCESSED", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/v1/regularizations/employees/"+ayuID+"?status=approved", employeeToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.TotalItems)

	otherToken := s.token("user-2", budiID, user.RoleEmployee)
	code, _ = s.do(http.MethodGet, "/api/v1/regularizations/employees/"+ayuID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, "/api/v1/regularizations/"+created.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodDelete, "/api/v1/regularizations/"+created.ID, employeeToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(http.MethodPost, "/api/v1/regularizations", employeeToken, map[string]string{"date": "2024-03-12", "request_type": "checkout", "reason": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Error.Details, "requested_check_out_time")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/regularizations", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	code, env = s.serve(req, employeeToken)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestLeaveRoutes(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token("user-1", ayuID, user.RoleEmployee)
	managerToken := s.token("user-9", budiID, user.RoleManager)
	adminToken := s.token("user-hr", "", user.RoleAdmin)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("data", `{"from":"2024-01-30","to":"2024-02-02","type":"sickLeave","mode":"full","description":"flu"}`))
	part, err := mw.CreateFormFile("file", "doctor-note.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves/requests", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, env := s.serve(req, employeeToken)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		ID     string `json:"id"`
		File   string `json:"file"`
		Status string `json:"status"`
	}
	decodeData(t, env, &created)
	assert.Equal(t, "pending", created.Status)
	assert.True(t, strings.HasPrefix(created.File, "http://localhost:8080/uploads/leave/"+ayuID+"/"))

	// the stored attachment is served to authenticated callers
	fileReq := httptest.NewRequest(http.MethodGet, strings.TrimPrefix(created.File, "http://localhost:8080"), nil)
	fileReq.Header.Set("Authorization", "Bearer "+employeeToken)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, fileReq)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4", rec.Body.String())

	code, _ = s.do(http.MethodPut, "/api/v1/leaves/requests/"+created.ID+"/status", managerToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, "/api/v1/leaves/requests/pending", managerToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPut, "/api/v1/leaves/requests/"+created.ID+"/status", adminToken, map[string]string{"status": "approved", "hr_remark": "get well"})
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodPut, "/api/v1/leaves/requests/"+created.ID+"/status", adminToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_PROCESSED", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/v1/leaves/employees/"+ayuID+"/2024", employeeToken, nil)
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		Totals map[string]string `json:"totals"`
		Months []struct {
			Month     int    `json:"month"`
			SickLeave string `json:"sick_leave"`
		} `json:"months"`
	}
	decodeData(t, env, &summary)
	assert.Equal(t, "4", summary.Totals["sickLeave"])
	require.Len(t, summary.Months, 2)
	assert.Equal(t, "2", summary.Months[0].SickLeave)

	otherToken := s.token("user-2", budiID, user.RoleEmployee)
	code, _ = s.do(http.MethodGet, "/api/v1/leaves/employees/"+ayuID+"/2024", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/leaves/employees/"+ayuID+"/twenty", employeeToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/v1/leaves/requests/lr-missing", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMalformedIDs(t *testing.T) {
	s := newTestServer(t)
	managerToken := s.token("user-9", budiID, user.RoleManager)
	adminToken := s.token("user-hr", "", user.RoleAdmin)

	cases := []struct {
		method, path, token string
		body                any
	}{
		{http.MethodGet, "/api/v1/attendance/employees/abc?date=2024-03-14", managerToken, nil},
		{http.MethodGet, "/api/v1/attendance/employees/abc?year=2024&month=3", managerToken, nil},
		{http.MethodGet, "/api/v1/regularizations/abc", managerToken, nil},
		{http.MethodDelete, "/api/v1/regularizations/abc", managerToken, nil},
		{http.MethodPut, "/api/v1/regularizations/abc/status", managerToken, map[string]string{"status": "approved"}},
		{http.MethodGet, "/api/v1/regularizations/employees/abc", managerToken, nil},
		{http.MethodGet, "/api/v1/leaves/requests/abc", adminToken, nil},
		{http.MethodPut, "/api/v1/leaves/requests/abc/status", adminToken, map[string]string{"status": "approved"}},
		{http.MethodGet, "/api/v1/leaves/employees/abc/2024", adminToken, nil},
	}
	for _, p := range cases {
		code, env := s.do(p.method, p.path, p.token, p.body)
		assert.Equal(t, http.StatusNotFound, code, p.method+" "+p.path)
		if assert.NotNil(t, env.Error, p.method+" "+p.path) {
			assert.Equal(t, "NOT_FOUND", env.Error.Code)
		}
	}
}
