package integrationtests

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	auction "auction-house/internal/auctionService"
	auth "auction-house/internal/authService"
	bidding "auction-house/internal/biddingService"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/setup"
	"auction-house/services/web/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestRouter wires the full application over an isolated in-memory database
func SetupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, setup.Migrate(db))

	store := repository.NewGormStore(db)
	authSvc := auth.NewAuthService(store, store, 24*time.Hour)
	auctionSvc := auction.NewAuctionService(store)
	biddingSvc := bidding.NewBiddingService(store)

	return server.SetupRouter(authSvc, auctionSvc, biddingSvc, "../../web/templates/*.html")
}

// testClient drives the site as one browser, carrying the session cookie
// between requests.
type testClient struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	return &testClient{t: t, router: router}
}

func (c *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	recorder := httptest.NewRecorder()
	c.router.ServeHTTP(recorder, req)

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == helpers.SessionCookieName {
			if cookie.MaxAge < 0 || cookie.Value == "" {
				c.cookie = nil
			} else {
				c.cookie = cookie
			}
		}
	}
	return recorder
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *testClient) register(username, password string) {
	c.t.Helper()
	recorder := c.do(http.MethodPost, "/register", url.Values{
		"username":     {username},
		"password":     {password},
		"confirmation": {password},
	})
	require.Equal(c.t, http.StatusSeeOther, recorder.Code)
	require.NotNil(c.t, c.cookie, "registration should log the user in")
}

func (c *testClient) createListing(title, price, duration string) string {
	c.t.Helper()
	recorder := c.do(http.MethodPost, "/listings/create", url.Values{
		"title":    {title},
		"category": {"HOB"},
		"duration": {duration},
		"price":    {price},
	})
	require.Equal(c.t, http.StatusSeeOther, recorder.Code)

	location := recorder.Header().Get("Location")
	require.True(c.t, strings.HasPrefix(location, "/listings/"))
	return location
}

func (c *testClient) bid(listingPath, amount string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, listingPath, url.Values{
		"bid":   {"bid"},
		"price": {amount},
	})
}
