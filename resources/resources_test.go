package resources

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goccy/go-json"
	"github.com/octabyte/salon-gommon/api"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type staticToken string

func (s staticToken) AccessToken() string                           { return string(s) }
func (s staticToken) RefreshRejected(context.Context, string) bool { return false }

type call struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
}

type ResourcesTestSuite struct {
	suite.Suite
	server    *httptest.Server
	responses map[string]string
	calls     []call
	res       *Resources
}

func (s *ResourcesTestSuite) SetupTest() {
	s.responses = map[string]string{}
	s.calls = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, query: r.URL.Query()}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &c.body)
		}
		s.calls = append(s.calls, c)

		data, ok := s.responses[r.Method+" "+r.URL.Path]
		if !ok {
			data = "null"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"error":false,"message":"OK","data":` + data + `}`))
	}))

	client, err := api.New(api.Config{BaseURL: s.server.URL})
	s.Require().NoError(err)
	s.res = New(api.NewAuthenticated(client, staticToken("tok")))
}

func (s *ResourcesTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ResourcesTestSuite) lastCall() call {
	s.Require().NotEmpty(s.calls)
	return s.calls[len(s.calls)-1]
}

func (s *ResourcesTestSuite) TestClientSearchQueryAndDecoding() {
	s.responses["GET /api/clientes/search-pagination"] = `{"clients":[{"id":1,"nombre":"Ana","telefono":"555"}],"total":11,"pages":2}`

	page, err := s.res.Clients.Search(context.Background(), models.ClientQuery{Page: 2, Size: 10, Nombre: "an", SortOrder: enums.SortDesc})
	s.Require().NoError(err)

	q := s.lastCall().query
	s.Equal("2", q.Get("page"))
	s.Equal("10", q.Get("size"))
	s.Equal("an", q.Get("nombre"))
	s.Equal("nombre", q.Get("sortField"))
	s.Equal("desc", q.Get("sortOrder"))

	s.Len(page.Clients, 1)
	s.Equal("Ana", page.Clients[0].Nombre)
	s.Equal(11, page.Total)
	s.Equal(2, page.Pages)
}

func (s *ResourcesTestSuite) TestClientSearchFallbacks() {
	s.responses["GET /api/clientes/search-pagination"] = `{"clientes":[{"id":1,"nombre":"Ana"},{"id":2,"nombre":"Bea"}]}`

	page, err := s.res.Clients.Search(context.Background(), models.ClientQuery{})
	s.Require().NoError(err)
	s.Len(page.Clients, 2)
	s.Equal(2, page.Total)
	s.Equal(1, page.Pages)
	s.Equal("1", s.lastCall().query.Get("page"))

	s.responses["GET /api/clientes/search-pagination"] = `{}`
	page, err = s.res.Clients.Search(context.Background(), models.ClientQuery{})
	s.Require().NoError(err)
	s.Empty(page.Clients)
	s.Zero(page.Total)
	s.Zero(page.Pages)
}

func (s *ResourcesTestSuite) TestClientCRUD() {
	ctx := context.Background()
	s.responses["POST /api/clientes/"] = `{"id":9,"nombre":"Ana","email":"ana@salon.test"}`

	created, err := s.res.Clients.Create(ctx, models.Client{Nombre: "Ana", Email: "ana@salon.test"})
	s.Require().NoError(err)
	s.Equal(int64(9), created.ID)
	s.Equal("Ana", s.lastCall().body["nombre"])

	updated, err := s.res.Clients.Update(ctx, models.Client{ID: 9, Nombre: "Ana María"})
	s.Require().NoError(err)
	s.Equal("Ana María", updated.Nombre)
	s.Equal("PUT", s.lastCall().method)
	s.Equal("/api/clientes/9", s.lastCall().path)

	s.Require().NoError(s.res.Clients.Delete(ctx, 9))
	s.Equal("DELETE", s.lastCall().method)
	s.Equal("/api/clientes/9", s.lastCall().path)

	_, err = s.res.Clients.Create(ctx, models.Client{})
	s.Error(err)
	_, err = s.res.Clients.Update(ctx, models.Client{Nombre: "x"})
	s.Error(err)
}

func (s *ResourcesTestSuite) TestColorationsAcceptBothShapes() {
	ctx := context.Background()
	s.responses["GET /api/coloraciones/"] = `[{"id":1,"nombre":"Balayage"},{"id":2,"tipo":"Mechas"},{"id":3}]`

	list, err := s.res.Colorations.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Balayage", list[0].Nombre)
	s.Equal("Mechas", list[1].Nombre)

	s.responses["GET /api/coloraciones/search"] = `{"coloraciones":[{"id":"4","nombre":"Ombré","descripcion":"degradado"}]}`
	found, err := s.res.Colorations.Search(ctx, "omb ré")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(int64(4), found[0].ID)
	s.Equal("degradado", found[0].Descripcion)
	s.Equal("omb ré", s.lastCall().query.Get("query"))

	_, err = s.res.Colorations.Search(ctx, "")
	s.Require().NoError(err)
	s.Equal("/api/coloraciones/", s.lastCall().path)
}

func (s *ResourcesTestSuite) TestColorationWrites() {
	ctx := context.Background()

	created, err := s.res.Colorations.Create(ctx, models.Coloration{Nombre: "Tinte", Descripcion: "raíz"})
	s.Require().NoError(err)
	s.Equal("Tinte", created.Nombre)
	s.Equal(map[string]any{"nombre": "Tinte", "descripcion": "raíz"}, s.lastCall().body)

	s.responses["PUT /api/coloraciones/3"] = `{"coloracion":{"id":3,"nombre":"Tinte completo"}}`
	updated, err := s.res.Colorations.Update(ctx, models.Coloration{ID: 3, Nombre: "Tinte completo"})
	s.Require().NoError(err)
	s.Equal(int64(3), updated.ID)

	s.Require().NoError(s.res.Colorations.Delete(ctx, 3))
	s.Equal("/api/coloraciones/3", s.lastCall().path)
}

func (s *ResourcesTestSuite) TestReportsNormalizeAlternativeNames() {
	s.responses["GET /api/reportes/"] = `{"reportes":[
		{"reporteId":5,"cliente":{"id":2,"nombre":"Ana","telefono":"555"},"fechaServicio":"2024-05-01","tipo":"Mechas","detalle":"7.1 + 20vol","nota":"alergia","precio":"45.5"},
		{"id":6,"clienteNombre":"Bea","fecha":"2024-05-02","coloracion":{"id":3,"nombre":"Balayage"},"formula":"9.0","observaciones":"ok","precio":30},
		{"id":7,"createdAt":"2024-05-03T10:00:00Z"}
	]}`

	reports, err := s.res.Reports.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(reports, 3)

	s.Equal(int64(5), reports[0].ID)
	s.Equal(int64(2), reports[0].ClienteID)
	s.Equal("Ana", reports[0].ClienteNombre)
	s.Equal("555", reports[0].ClienteTelefono)
	s.Equal("2024-05-01", reports[0].Fecha)
	s.Equal("Mechas", reports[0].Coloracion)
	s.Equal("7.1 + 20vol", reports[0].Formula)
	s.Equal("alergia", reports[0].Observaciones)
	s.InDelta(45.5, reports[0].Precio, 0.001)

	s.Equal("Bea", reports[1].ClienteNombre)
	s.Equal(int64(3), reports[1].ColoracionID)
	s.Equal("Balayage", reports[1].Coloracion)
	s.InDelta(30, reports[1].Precio, 0.001)

	s.Equal("Sin nombre", reports[2].ClienteNombre)
	s.Equal("2024-05-03T10:00:00Z", reports[2].Fecha)
}

func (s *ResourcesTestSuite) TestReportGetAndUpdate() {
	ctx := context.Background()
	s.responses["GET /api/reportes/5"] = `{"reporte":{"clienteNombre":"Ana","formula":"7.1"}}`

	report, err := s.res.Reports.Get(ctx, 5)
	s.Require().NoError(err)
	s.Equal(int64(5), report.ID)
	s.Equal("7.1", report.Formula)

	s.responses["PUT /api/reportes/5"] = `{"id":5,"clienteNombre":"Ana","formula":"8.0"}`
	updated, err := s.res.Reports.Update(ctx, 5, models.ReportUpdate{ClienteID: 2, Coloracion: 3, Formula: "8.0", Observaciones: "nota", Precio: 40})
	s.Require().NoError(err)

	body := s.lastCall().body
	s.EqualValues(5, body["idReporte"])
	s.EqualValues(2, body["clienteId"])
	s.EqualValues(3, body["coloracion"])
	s.Equal("8.0", updated.Formula)
	s.Equal("nota", updated.Observaciones)
	s.InDelta(40, updated.Precio, 0.001)
	s.Equal(int64(2), updated.ClienteID)

	_, err = s.res.Reports.Update(ctx, 5, models.ReportUpdate{ClienteID: 2})
	s.Error(err)
}

func (s *ResourcesTestSuite) TestUsersSearch() {
	s.responses["GET /api/user/search-pagination"] = `{"users":[{"id":1,"name":"Ana","email":"ana@salon.test","role":2}],"total":1,"pages":1}`

	page, err := s.res.Users.Search(context.Background(), models.AccountQuery{Role: "2"})
	s.Require().NoError(err)
	s.Require().Len(page.Users, 1)
	s.Equal(enums.RoleAdmin, page.Users[0].Role)
	s.Equal("2", s.lastCall().query.Get("role"))
	s.Equal("name", s.lastCall().query.Get("sortField"))
}

func (s *ResourcesTestSuite) TestUserCreateChecksPasswordLocally() {
	ctx := context.Background()
	in := models.AccountInput{Name: "Ana", Email: "ana@salon.test", Password: "Secret123", ConfirmPassword: "Secret124", Role: enums.RoleStaff}

	_, err := s.res.Users.Create(ctx, in)
	s.ErrorIs(err, ErrPasswordMismatch)

	in.Password, in.ConfirmPassword = "secret", "secret"
	_, err = s.res.Users.Create(ctx, in)
	s.ErrorIs(err, ErrWeakPassword)
	s.Empty(s.calls)

	in.Password, in.ConfirmPassword = "Secret123", "Secret123"
	created, err := s.res.Users.Create(ctx, in)
	s.Require().NoError(err)
	s.Equal("Ana", created.Name)

	c := s.lastCall()
	s.Equal("/api/user/create-user", c.path)
	s.Equal("Secret123", c.body["password"])
	s.NotContains(c.body, "ConfirmPassword")
	s.NotContains(c.body, "id")
}

func (s *ResourcesTestSuite) TestUserUpdateOmitsBlankPassword() {
	ctx := context.Background()

	_, err := s.res.Users.Update(ctx, models.AccountInput{ID: 4, Name: "Ana", Email: "ana@salon.test", Role: enums.RoleAdmin})
	s.Require().NoError(err)
	c := s.lastCall()
	s.Equal("PUT", c.method)
	s.Equal("/api/user/update-user", c.path)
	s.NotContains(c.body, "password")
	s.EqualValues(4, c.body["id"])

	_, err = s.res.Users.Update(ctx, models.AccountInput{ID: 4, Name: "Ana", Email: "ana@salon.test", Role: enums.RoleAdmin, Password: "weak", ConfirmPassword: "weak"})
	s.ErrorIs(err, ErrWeakPassword)

	s.Require().NoError(s.res.Users.Delete(ctx, 4))
	s.Equal("/api/user/delete-user/4", s.lastCall().path)
}

func TestResourcesTestSuite(t *testing.T) {
	suite.Run(t, new(ResourcesTestSuite))
}

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Secret123": true,
		"Sécret123": true,
		"secret123": false,
		"SECRET123": false,
		"SecretABC": false,
		"Sec123":    false,
		"":          false,
	}
	for password, want := range cases {
		assert.Equal(t, want, IsStrongPassword(password), password)
	}
}

func TestApplicationErrorsPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":404,"error":true,"message":"Reporte no encontrado"}`))
	}))
	defer server.Close()

	client, err := api.New(api.Config{BaseURL: server.URL})
	require.NoError(t, err)
	res := New(api.NewAuthenticated(client, staticToken("tok")))

	_, err = res.Reports.Get(context.Background(), 1)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Code)
}
