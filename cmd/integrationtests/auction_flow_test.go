package integrationtests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// Tests the full listing lifecycle through the HTTP surface: registration,
// listing creation, bidding, closing and winner display.
func TestAuctionLifecycle(t *testing.T) {
	router := SetupTestRouter(t)

	alice := newTestClient(t, router)
	alice.register("alice", "secret")
	listing := alice.createListing("Mountain bike", "100", "1")

	bob := newTestClient(t, router)
	bob.register("bob", "hunter2")

	// A bid below the current price is rejected and the price is unchanged
	recorder := bob.bid(listing, "90")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Bid must be higher than the current price.")
	require.Contains(t, recorder.Body.String(), "$100")

	// An equal bid is rejected as well
	recorder = bob.bid(listing, "100")
	require.Contains(t, recorder.Body.String(), "Bid must be higher than the current price.")

	// A higher bid becomes the current price
	recorder = bob.bid(listing, "150")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Your bid is the current highest.")
	require.Contains(t, recorder.Body.String(), "$150")

	// Only the owner may close
	recorder = bob.do(http.MethodPost, listing+"/close", url.Values{})
	require.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = alice.do(http.MethodPost, listing+"/close", url.Values{})
	require.Equal(t, http.StatusSeeOther, recorder.Code)

	// The closed page names the highest bidder as winner
	recorder = alice.get(listing)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "This auction has ended.")
	require.Contains(t, recorder.Body.String(), "bob")

	// The winner gets a personal note
	recorder = bob.get(listing)
	require.Contains(t, recorder.Body.String(), "you won this auction")

	// Bidding on a closed auction is rejected
	recorder = bob.bid(listing, "500")
	require.Contains(t, recorder.Body.String(), "This auction has ended.")
}

// Tests registration edge cases over the full stack
func TestRegistration(t *testing.T) {
	router := SetupTestRouter(t)

	alice := newTestClient(t, router)
	alice.register("alice", "secret")

	// The same username cannot be registered twice
	rival := newTestClient(t, router)
	recorder := rival.do(http.MethodPost, "/register", url.Values{
		"username":     {"alice"},
		"password":     {"other"},
		"confirmation": {"other"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Username already taken.")

	// Mismatched confirmation is rejected
	recorder = rival.do(http.MethodPost, "/register", url.Values{
		"username":     {"carol"},
		"password":     {"secret"},
		"confirmation": {"different"},
	})
	require.Contains(t, recorder.Body.String(), "Passwords must match.")

	// Login with a wrong password fails, with the right one it succeeds
	recorder = rival.do(http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	require.Contains(t, recorder.Body.String(), "Invalid username and/or password.")

	recorder = rival.do(http.MethodPost, "/login", url.Values{
		"username": {"alice"},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusSeeOther, recorder.Code)

	// Logout drops the session
	recorder = rival.do(http.MethodPost, "/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	require.Nil(t, rival.cookie)
}

// Tests the watchlist toggle through the HTTP surface
func TestWatchlistFlow(t *testing.T) {
	router := SetupTestRouter(t)

	alice := newTestClient(t, router)
	alice.register("alice", "secret")
	listing := alice.createListing("Mountain bike", "100", "7")

	bob := newTestClient(t, router)
	bob.register("bob", "hunter2")

	// The detail page offers to add first
	recorder := bob.get(listing)
	require.Contains(t, recorder.Body.String(), "Add to Watchlist")

	// Toggling adds the listing and flips the label
	recorder = bob.do(http.MethodPost, listing, url.Values{"watch": {"watch"}})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Remove from Watchlist")

	recorder = bob.get("/watchlist")
	require.Contains(t, recorder.Body.String(), "Mountain bike")

	// Toggling again removes it
	recorder = bob.do(http.MethodPost, listing, url.Values{"watch": {"watch"}})
	require.Contains(t, recorder.Body.String(), "Add to Watchlist")

	recorder = bob.get("/watchlist")
	require.NotContains(t, recorder.Body.String(), "Mountain bike")
}

// Tests the category filter and access control
func TestBrowsing(t *testing.T) {
	router := SetupTestRouter(t)

	alice := newTestClient(t, router)
	alice.register("alice", "secret")
	alice.createListing("Mountain bike", "100", "7")

	anonymous := newTestClient(t, router)

	// The front page is public
	recorder := anonymous.get("/")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Mountain bike")

	// The category filter matches the listing's category
	recorder = anonymous.get("/categorize?select=HOB")
	require.Contains(t, recorder.Body.String(), "Mountain bike")
	require.Contains(t, recorder.Body.String(), "Hobbies")

	recorder = anonymous.get("/categorize?select=BOK")
	require.Contains(t, recorder.Body.String(), "No listings to show.")

	// An unknown category code renders an empty page, not an error
	recorder = anonymous.get("/categorize?select=NOPE")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "No listings to show.")

	// Creation and the watchlist require a login
	recorder = anonymous.get("/listings/create")
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	require.Equal(t, "/login", recorder.Header().Get("Location"))

	recorder = anonymous.get("/watchlist")
	require.Equal(t, http.StatusSeeOther, recorder.Code)
}

// Tests commenting through the HTTP surface
func TestComments(t *testing.T) {
	router := SetupTestRouter(t)

	alice := newTestClient(t, router)
	alice.register("alice", "secret")
	listing := alice.createListing("Mountain bike", "100", "7")

	bob := newTestClient(t, router)
	bob.register("bob", "hunter2")

	// A comment without a title falls back to the default
	recorder := bob.do(http.MethodPost, listing, url.Values{
		"comment": {"comment"},
		"content": {"Is shipping included?"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "New comment")
	require.Contains(t, recorder.Body.String(), "Is shipping included?")

	// A titled comment keeps its title
	recorder = bob.do(http.MethodPost, listing, url.Values{
		"comment": {"comment"},
		"title":   {"Condition"},
		"content": {"Any scratches?"},
	})
	require.Contains(t, recorder.Body.String(), "Condition")
	require.Contains(t, recorder.Body.String(), "Any scratches?")
}
