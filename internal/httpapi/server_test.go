package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"officine.sn/internal/auth"
	"officine.sn/internal/command"
	"officine.sn/internal/grid"
	"officine.sn/internal/inspection"
	"officine.sn/internal/store/memory"
	"officine.sn/internal/stream"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.New()
	if err := store.Seed("2025-03-10 08:00:00"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	authSvc, err := auth.NewService(store, store)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	inspSvc, err := inspection.NewService(store, store)
	if err != nil {
		t.Fatalf("inspection service: %v", err)
	}
	grids := grid.NewRegistry()
	d, err := command.NewDispatcher(authSvc, inspSvc, grids, store)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	api := New(d, grids, stream.New(), store, ReadyProbe{}, Config{Version: "test"})

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/v1/auth/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var session auth.Session
	decodeBody(t, resp, &session)
	if session.Token == "" {
		t.Fatal("login returned empty token")
	}
	return session.Token
}

func TestHealthAndInfoArePublic(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/v1/info"} {
		resp := do(t, http.MethodGet, srv.URL+path, "", "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/v1/inspections", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodGet, srv.URL+"/v1/auth/session", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session status = %d", resp.StatusCode)
	}
	var view auth.UserView
	decodeBody(t, resp, &view)
	if view.Username != "admin" || view.Role != auth.RoleAdmin {
		t.Fatalf("session view = %+v", view)
	}

	resp = do(t, http.MethodPost, srv.URL+"/v1/auth/logout", token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/auth/session", token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("session after logout status = %d, want 401", resp.StatusCode)
	}
}

func TestBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/v1/auth/login", "",
		`{"username":"admin","password":"wrong"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/users", admin,
		`{"username":"fatou.ndiaye","full_name":"Fatou Ndiaye","role":"inspector","password":"secret1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d", resp.StatusCode)
	}
	var created auth.UserView
	decodeBody(t, resp, &created)

	inspector := login(t, srv, "fatou.ndiaye", "secret1")

	// An inspector can neither list nor create users.
	resp = do(t, http.MethodGet, srv.URL+"/v1/users", inspector, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("inspector list users status = %d, want 403", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, srv.URL+"/v1/users", inspector,
		`{"username":"x.y","full_name":"X","role":"viewer","password":"secret1"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("inspector create user status = %d, want 403", resp.StatusCode)
	}

	// Password change and deactivation are admin operations.
	resp = do(t, http.MethodPost, srv.URL+"/v1/users/"+created.ID+"/password", admin,
		`{"new_password":"newsecret"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("change password status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodDelete, srv.URL+"/v1/users/"+created.ID, admin, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deactivate status = %d", resp.StatusCode)
	}

	// Deactivation killed the inspector's session.
	resp = do(t, http.MethodGet, srv.URL+"/v1/auth/session", inspector, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("deactivated session status = %d, want 401", resp.StatusCode)
	}
}

func TestUpdateUserReturnsUpdatedView(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/users", admin,
		`{"username":"amadou.fall","full_name":"Amadou Fall","role":"inspector","password":"secret1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d", resp.StatusCode)
	}
	var created auth.UserView
	decodeBody(t, resp, &created)

	resp = do(t, http.MethodPatch, srv.URL+"/v1/users/"+created.ID, admin,
		`{"full_name":"Amadou Fall Sr","role":"lead_inspector"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update user status = %d", resp.StatusCode)
	}
	var updated auth.UserView
	decodeBody(t, resp, &updated)
	if updated.ID != created.ID {
		t.Fatalf("updated id = %q, want %q", updated.ID, created.ID)
	}
	if updated.FullName != "Amadou Fall Sr" || updated.Role != auth.RoleLeadInspector {
		t.Fatalf("updated view = %+v", updated)
	}
	if !updated.Active {
		t.Fatal("update cleared the active flag")
	}

	// The patch is visible on the next read too.
	resp = do(t, http.MethodGet, srv.URL+"/v1/users", admin, "")
	var views []auth.UserView
	decodeBody(t, resp, &views)
	found := false
	for _, v := range views {
		if v.ID == created.ID {
			found = true
			if v.FullName != "Amadou Fall Sr" {
				t.Fatalf("listed view = %+v", v)
			}
		}
	}
	if !found {
		t.Fatal("updated user missing from listing")
	}
}

func TestCreateUserValidationMessage(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/users", admin,
		`{"username":"ab","full_name":"A B","role":"inspector","password":"secret1"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Error, "Nom d'utilisateur") {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestInspectionLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/inspections", admin,
		`{"grid_id":"officine","establishment":"Pharmacie du Plateau","date_inspection":"2025-03-15","inspection_type":"initiale","inspectors":["Amadou Diop"]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var insp inspection.Inspection
	decodeBody(t, resp, &insp)
	if insp.Status != inspection.StatusDraft {
		t.Fatalf("new inspection status = %q", insp.Status)
	}

	// Saving a response advances draft to in_progress and reports progress.
	resp = do(t, http.MethodPost, srv.URL+"/v1/inspections/"+insp.ID+"/responses", admin,
		`{"criterion_id":1,"conforme":true,"observation":""}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save response status = %d", resp.StatusCode)
	}
	var progress inspection.Progress
	decodeBody(t, resp, &progress)
	if progress.Answered != 1 || progress.Conforme != 1 {
		t.Fatalf("progress = %+v", progress)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/inspections/"+insp.ID, admin, "")
	var after inspection.Inspection
	decodeBody(t, resp, &after)
	if after.Status != inspection.StatusInProgress {
		t.Fatalf("status after save = %q", after.Status)
	}

	// Validate, then export shows up in the report.
	resp = do(t, http.MethodPost, srv.URL+"/v1/inspections/"+insp.ID+"/status", admin,
		`{"status":"validated"}`)
	var validated inspection.Inspection
	decodeBody(t, resp, &validated)
	if validated.ValidatedByName == "" {
		t.Fatal("validated inspection missing validator name")
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/inspections/"+insp.ID+"/report", admin, "")
	var report map[string]json.RawMessage
	decodeBody(t, resp, &report)
	for _, key := range []string{"inspection", "summary", "responses"} {
		if _, ok := report[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}

	resp = do(t, http.MethodDelete, srv.URL+"/v1/inspections/"+insp.ID, admin, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/v1/inspections/"+insp.ID, admin, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestValidationStatusRequiresElevatedRole(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/users", admin,
		`{"username":"moussa.sow","full_name":"Moussa Sow","role":"inspector","password":"secret1"}`)
	resp.Body.Close()
	inspector := login(t, srv, "moussa.sow", "secret1")

	resp = do(t, http.MethodPost, srv.URL+"/v1/inspections", inspector,
		`{"grid_id":"grossiste","establishment":"Laborex","date_inspection":"2025-04-01","inspection_type":"suivi","inspectors":["Moussa Sow"]}`)
	var insp inspection.Inspection
	decodeBody(t, resp, &insp)

	resp = do(t, http.MethodPost, srv.URL+"/v1/inspections/"+insp.ID+"/status", inspector,
		`{"status":"validated"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("inspector validate status = %d, want 403", resp.StatusCode)
	}

	// Other statuses remain open to the inspector.
	resp = do(t, http.MethodPost, srv.URL+"/v1/inspections/"+insp.ID+"/status", inspector,
		`{"status":"completed"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inspector complete status = %d", resp.StatusCode)
	}

	// Deletion stays with the elevated roles.
	resp = do(t, http.MethodDelete, srv.URL+"/v1/inspections/"+insp.ID, inspector, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("inspector delete status = %d, want 403", resp.StatusCode)
	}
}

func TestInspectorListIsScopedToOwn(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/users", admin,
		`{"username":"awa.ba","full_name":"Awa Ba","role":"inspector","password":"secret1"}`)
	resp.Body.Close()
	inspector := login(t, srv, "awa.ba", "secret1")

	resp = do(t, http.MethodPost, srv.URL+"/v1/inspections", admin,
		`{"grid_id":"officine","establishment":"Pharmacie Centrale","date_inspection":"2025-05-01","inspection_type":"initiale","inspectors":["Admin"]}`)
	resp.Body.Close()

	resp = do(t, http.MethodGet, srv.URL+"/v1/inspections", inspector, "")
	var list []inspection.Inspection
	decodeBody(t, resp, &list)
	if len(list) != 0 {
		t.Fatalf("inspector sees %d foreign inspections", len(list))
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/inspections", admin, "")
	decodeBody(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("admin sees %d inspections, want 1", len(list))
	}
}

func TestGridEndpoints(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodGet, srv.URL+"/v1/grids", admin, "")
	var summaries []grid.Summary
	decodeBody(t, resp, &summaries)
	if len(summaries) != 2 {
		t.Fatalf("grids = %d, want 2", len(summaries))
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/grids/officine", admin, "")
	var g grid.Grid
	decodeBody(t, resp, &g)
	if g.ID != "officine" || g.CriteriaCount() == 0 {
		t.Fatalf("grid = %+v", g.Summarize())
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/grids/unknown", admin, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown grid status = %d, want 404", resp.StatusCode)
	}
}

func TestStatsAndExports(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/inspections", admin,
		`{"grid_id":"officine","establishment":"Pharmacie Liberte","date_inspection":"2025-06-10","inspection_type":"initiale","inspectors":["Admin"]}`)
	var insp inspection.Inspection
	decodeBody(t, resp, &insp)
	resp = do(t, http.MethodPost, srv.URL+"/v1/inspections/"+insp.ID+"/responses", admin,
		`{"criterion_id":1,"conforme":true,"observation":"RAS"}`)
	resp.Body.Close()

	resp = do(t, http.MethodGet, srv.URL+"/v1/stats", admin, "")
	var stats struct {
		TotalInspections int `json:"total_inspections"`
		TotalConforme    int `json:"total_conforme"`
	}
	decodeBody(t, resp, &stats)
	if stats.TotalInspections != 1 || stats.TotalConforme != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/stats/trend", admin, "")
	var trend []struct {
		Date string `json:"date"`
	}
	decodeBody(t, resp, &trend)
	if len(trend) != 1 || trend[0].Date != "2025-06-10" {
		t.Fatalf("trend = %+v", trend)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/exports/csv", admin, "")
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("csv content type = %q", ct)
	}
	body := readAll(t, resp)
	if !strings.Contains(body, "Pharmacie Liberte") {
		t.Fatalf("csv missing establishment: %q", body)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/exports/json", admin, "")
	var items []map[string]json.RawMessage
	decodeBody(t, resp, &items)
	if len(items) != 1 {
		t.Fatalf("json export items = %d", len(items))
	}
}

func TestAuditEndpointsAreRestricted(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := do(t, http.MethodPost, srv.URL+"/v1/users", admin,
		`{"username":"sidi.kane","full_name":"Sidi Kane","role":"viewer","password":"secret1"}`)
	resp.Body.Close()
	viewer := login(t, srv, "sidi.kane", "secret1")

	resp = do(t, http.MethodGet, srv.URL+"/v1/audit", viewer, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("viewer audit status = %d, want 403", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/audit?action=LOGIN", admin, "")
	var entries []map[string]any
	decodeBody(t, resp, &entries)
	if len(entries) == 0 {
		t.Fatal("no LOGIN audit entries")
	}
	for _, e := range entries {
		if e["action"] != "LOGIN" {
			t.Fatalf("filtered entry action = %v", e["action"])
		}
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/audit/count", admin, "")
	var count struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp, &count)
	if count.Count == 0 {
		t.Fatal("audit count = 0")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("request id = %q", got)
	}

	// Absent header gets a generated id.
	resp2 := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	defer resp2.Body.Close()
	if resp2.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing generated request id")
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")
	resp := do(t, http.MethodGet, srv.URL+"/v1/nope", admin, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}
