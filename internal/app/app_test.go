package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/freelance-marketplace/internal/config"
	"github.com/iliyamo/freelance-marketplace/internal/database"
)

type client struct {
	t *testing.T
	e *echo.Echo
}

func newServer(t *testing.T) client {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, zap.NewNop()))

	cfg := config.Config{
		DB:              config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		JWTSecret:       "test-secret",
		AccessTTLMin:    30,
		RefreshTTLHours: 24,
		BcryptCost:      bcrypt.MinCost,
		UploadDir:       t.TempDir(),
		UploadMaxBytes:  1 << 20,
	}
	e, err := New(cfg, db, zap.NewNop())
	require.NoError(t, err)
	return client{t: t, e: e}
}

func (c client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return c.send(req, token)
}

func (c client) upload(method, path, token string, fields map[string]string, field, filename, content string) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, w.WriteField(k, v))
	}
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(c.t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, w.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return c.send(req, token)
}

func (c client) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func (c client) register(username string, seller, client bool) int64 {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/auth/register", "", registration(username, seller, client))
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID int64 `json:"id"`
	}
	decode(c.t, rec, &resp)
	return resp.ID
}

func (c client) login(username string) tokenPair {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": "s3cret-pass"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var pair tokenPair
	decode(c.t, rec, &pair)
	return pair
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func registration(username string, seller, client bool) map[string]any {
	return map[string]any{
		"first_name": "Test",
		"last_name":  "User",
		"email":      username + "@example.com",
		"username":   username,
		"password1":  "s3cret-pass",
		"password2":  "s3cret-pass",
		"is_seller":  seller,
		"is_client":  client,
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code, msg string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, code, body.Error.Code)
	assert.Equal(t, msg, body.Error.Message)
}

func createdID(t *testing.T, rec *httptest.ResponseRecorder, key string) int64 {
	t.Helper()
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]json.RawMessage
	decode(t, rec, &resp)
	var obj struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp[key], &obj))
	return obj.ID
}

func TestGigLifecycle(t *testing.T) {
	c := newServer(t)

	// the first account becomes superuser
	rec := c.do(http.MethodPost, "/auth/register", "", registration("admin", false, true))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"is_superuser":true`)
	c.register("bob", false, true)

	admin := c.login("admin").Access
	bob := c.login("bob").Access

	assertError(t, c.do(http.MethodPost, "/superuser/categories", bob, map[string]string{"name": "Design"}),
		http.StatusForbidden, "forbidden", "Not authorized")

	catID := createdID(t, c.do(http.MethodPost, "/superuser/categories", admin, map[string]string{"name": "Design"}), "category")
	t1 := createdID(t, c.do(http.MethodPost, "/superuser/tags", admin, map[string]string{"name": "T1"}), "tag")
	t2 := createdID(t, c.do(http.MethodPost, "/superuser/tags", admin, map[string]string{"name": "T2"}), "tag")
	assertError(t, c.do(http.MethodPost, "/superuser/tags", admin, map[string]string{"name": "T1"}),
		http.StatusBadRequest, "conflict", "Tag already exists")

	assertError(t, c.do(http.MethodGet, "/public/gigs", "", nil), http.StatusNotFound, "not_found", "No gigs found")

	rec = c.do(http.MethodPost, "/gigs", admin, map[string]any{
		"gigs_title":  "Logo",
		"duration":    3,
		"price":       50,
		"description": "A logo",
		"category_id": catID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		GigID int64 `json:"gig_id"`
	}
	decode(t, rec, &created)

	tagsPath := fmt.Sprintf("/gigs/%d/tags", created.GigID)
	rec = c.do(http.MethodPost, tagsPath, admin, map[string]any{"tag_ids": []int64{t1, t2}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assertError(t, c.do(http.MethodPost, tagsPath, admin, map[string]any{"tag_ids": []int64{t1}}),
		http.StatusBadRequest, "conflict", "This tag already use")
	assertError(t, c.do(http.MethodPost, tagsPath, admin, map[string]any{"tag_ids": []int64{404}}),
		http.StatusNotFound, "not_found", "Tag with id 404 not found")

	rec = c.do(http.MethodGet, fmt.Sprintf("/%d/full", created.GigID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"files":[]`)
	var detail struct {
		Category *struct {
			Name string `json:"category_name"`
		} `json:"category"`
		Tags []struct {
			Name string `json:"tag_name"`
		} `json:"tags"`
	}
	decode(t, rec, &detail)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Design", detail.Category.Name)
	require.Len(t, detail.Tags, 2)
	assert.Equal(t, "T1", detail.Tags[0].Name)
	assert.Equal(t, "T2", detail.Tags[1].Name)

	rec = c.do(http.MethodGet, "/search/T1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"tag_name":"T2"`)
	assertError(t, c.do(http.MethodGet, "/search/nope", "", nil), http.StatusNotFound, "not_found", "Tag not found")

	gigPath := fmt.Sprintf("/gigs/%d", created.GigID)
	assertError(t, c.do(http.MethodDelete, gigPath, bob, nil), http.StatusForbidden, "forbidden", "You are not the owner of this gig")
	assertError(t, c.do(http.MethodDelete, "/gigs/999", bob, nil), http.StatusNotFound, "not_found", "Gig not found")

	rec = c.upload(http.MethodPost, gigPath+"/files", admin, nil, "file", "brief.txt", "hello")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var uploaded struct {
		File struct {
			URL string `json:"file_url"`
		} `json:"file"`
	}
	decode(t, rec, &uploaded)
	rec = c.do(http.MethodGet, "/uploads/"+uploaded.File.URL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	rec = c.do(http.MethodDelete, gigPath, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assertError(t, c.do(http.MethodGet, fmt.Sprintf("/%d/full", created.GigID), "", nil), http.StatusNotFound, "not_found", "Gig not found")
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/uploads/"+uploaded.File.URL, "", nil).Code)
}

func TestRegisterPrecedence(t *testing.T) {
	c := newServer(t)
	c.register("alice", false, true)

	// a taken email wins over a password mismatch
	body := registration("other", false, true)
	body["email"] = "alice@example.com"
	body["password2"] = "different"
	assertError(t, c.do(http.MethodPost, "/auth/register", "", body), http.StatusBadRequest, "conflict", "Email already exists!")

	body = registration("alice", false, true)
	body["email"] = "new@example.com"
	assertError(t, c.do(http.MethodPost, "/auth/register", "", body), http.StatusBadRequest, "conflict", "Username already exists!")

	body = registration("carol", false, true)
	body["password2"] = "different"
	assertError(t, c.do(http.MethodPost, "/auth/register", "", body), http.StatusBadRequest, "validation_error", "Passwords are not the same !")

	body = registration("dave", false, true)
	body["email"] = "not-an-email"
	rec := c.do(http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email"`)

	// later accounts are never superusers
	rec = c.do(http.MethodPost, "/auth/register", "", registration("erin", false, true))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_superuser":false`)
}

func TestTokens(t *testing.T) {
	c := newServer(t)
	c.register("alice", false, true)

	assertError(t, c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "wrong"}),
		http.StatusUnauthorized, "unauthenticated", "Username or password is not correct!")
	assertError(t, c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "ghost", "password": "wrong"}),
		http.StatusUnauthorized, "unauthenticated", "Username or password is not correct!")

	pair := c.login("alice")

	rec := c.do(http.MethodGet, "/auth/get_current_user", pair.Access, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "password")

	assertError(t, c.do(http.MethodGet, "/auth/get_current_user", pair.Refresh, nil),
		http.StatusUnauthorized, "unauthenticated", "Token invalid!")
	assertError(t, c.do(http.MethodGet, "/auth/get_current_user", "", nil),
		http.StatusUnauthorized, "unauthenticated", "Token invalid!")
	assertError(t, c.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh": pair.Access}),
		http.StatusUnauthorized, "unauthenticated", "Token invalid!")

	rec = c.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var fresh tokenPair
	decode(t, rec, &fresh)
	assert.NotEmpty(t, fresh.Access)
	assert.NotEqual(t, pair.Access, fresh.Access)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/get_current_user", fresh.Access, nil).Code)

	// non-sellers cannot open a seller profile
	assertError(t, c.upload(http.MethodPost, "/auth/add_seller", pair.Access, nil, "", "", ""),
		http.StatusForbidden, "forbidden", "User is not a seller or does not exist")
}

func TestDeletedUserToken(t *testing.T) {
	c := newServer(t)
	c.register("admin", false, true)
	bobID := c.register("bob", false, true)
	admin := c.login("admin").Access
	bob := c.login("bob").Access

	rec := c.do(http.MethodDelete, fmt.Sprintf("/superuser/users/%d", bobID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the token still verifies but its subject is gone
	assertError(t, c.do(http.MethodGet, "/gigs", bob, nil), http.StatusNotFound, "not_found", "User not found")
}

func TestSellerProfile(t *testing.T) {
	c := newServer(t)
	c.register("admin", false, false)
	c.register("sam", true, false)
	clientID := c.register("cleo", false, true)
	admin := c.login("admin").Access
	sam := c.login("sam").Access

	assertError(t, c.do(http.MethodGet, "/seller/profile", sam, nil),
		http.StatusNotFound, "not_found", fmt.Sprintf("Seller not found for user_id %d", 2))

	rec := c.upload(http.MethodPost, "/auth/add_seller", sam,
		map[string]string{"description": "Illustrator", "birth_date": "1990-05-01"},
		"image", "me.png", "png-bytes")
	sellerID := createdID(t, rec, "seller")
	assertError(t, c.upload(http.MethodPost, "/auth/add_seller", sam, nil, "", "", ""),
		http.StatusBadRequest, "conflict", "Seller already exists")

	rec = c.do(http.MethodGet, "/seller/profile", sam, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"description":"Illustrator"`)

	var skills []int64
	for _, name := range []string{"Go", "SQL", "Docker", "K8s"} {
		skills = append(skills, createdID(t, c.do(http.MethodPost, "/superuser/skills", admin, map[string]string{"name": name}), "skill"))
	}
	rec = c.do(http.MethodPost, "/seller/skills", sam, map[string]any{"skill_ids": skills[:3]})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assertError(t, c.do(http.MethodPost, "/seller/skills", sam, map[string]any{"skill_ids": skills[3:]}),
		http.StatusBadRequest, "validation_error", "Skill limit is 3")

	rec = c.do(http.MethodGet, "/public/sellers/skill/Go", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"username":"sam"`)

	rec = c.do(http.MethodGet, fmt.Sprintf("/public/seller/profile/%d", sellerID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"skill_name":"Docker"`)

	rec = c.do(http.MethodPost, "/seller/saved_clients", sam, map[string]any{"user_id": clientID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assertError(t, c.do(http.MethodPost, "/seller/saved_clients", sam, map[string]any{"user_id": clientID}),
		http.StatusBadRequest, "conflict", "Client already saved")
	assertError(t, c.do(http.MethodPost, "/seller/saved_clients", sam, map[string]any{"user_id": 2}),
		http.StatusBadRequest, "validation_error", "User is not a client")
}

func TestSharedUploadSurvivesGigDelete(t *testing.T) {
	c := newServer(t)
	c.register("admin", false, true)
	admin := c.login("admin").Access
	catID := createdID(t, c.do(http.MethodPost, "/superuser/categories", admin, map[string]string{"name": "Design"}), "category")

	var gigs []int64
	for _, title := range []string{"Logo", "Banner"} {
		rec := c.do(http.MethodPost, "/gigs", admin, map[string]any{
			"gigs_title":  title,
			"duration":    3,
			"price":       50,
			"description": "work",
			"category_id": catID,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created struct {
			GigID int64 `json:"gig_id"`
		}
		decode(t, rec, &created)
		gigs = append(gigs, created.GigID)

		rec = c.upload(http.MethodPost, fmt.Sprintf("/gigs/%d/files", created.GigID), admin, nil, "file", "brief.txt", "brief")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := c.do(http.MethodDelete, fmt.Sprintf("/gigs/%d", gigs[0]), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, fmt.Sprintf("/%d/full", gigs[1]), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"file_url":"gig_files/1_brief.txt"`)
	rec = c.do(http.MethodGet, "/uploads/gig_files/1_brief.txt", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "brief", rec.Body.String())

	rec = c.do(http.MethodDelete, fmt.Sprintf("/gigs/%d", gigs[1]), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/uploads/gig_files/1_brief.txt", "", nil).Code)
}

func TestLoginRejectsLongPassword(t *testing.T) {
	c := newServer(t)
	body := registration("alice", false, true)
	stored := strings.Repeat("a", 72)
	body["password1"], body["password2"] = stored, stored
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/auth/register", "", body).Code)

	rec := c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": stored + "-suffix"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// within the rune limit but over 72 bytes
	assertError(t, c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": strings.Repeat("ä", 40)}),
		http.StatusUnauthorized, "unauthenticated", "Username or password is not correct!")

	rec = c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": stored})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
