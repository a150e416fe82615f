package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"nativore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeListings(t *testing.T, data []byte) []models.Listing {
	t.Helper()
	var out []models.Listing
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestGetListings_Filters(t *testing.T) {
	env := newTestEnv(t)
	env.createListing(t, models.Listing{Name: "Murugan Idli", City: "Madurai", Cuisine: "South Indian", AvgPrice: 200, Rating: 4.6})
	env.createListing(t, models.Listing{Name: "Amma Mess", City: "Madurai", Cuisine: "Chettinad", AvgPrice: 450, Rating: 4.2})
	env.createListing(t, models.Listing{Name: "Annapoorna", City: "Coimbatore", Cuisine: "South Indian", AvgPrice: 300, Rating: 4.0})
	hidden := env.createListing(t, models.Listing{Name: "Closed Kitchen", City: "Madurai", Cuisine: "South Indian", AvgPrice: 250, Rating: 4.9})
	require.NoError(t, env.db.Model(hidden).Update("is_active", false).Error)

	tests := []struct {
		query string
		names []string
	}{
		{"", []string{"Murugan Idli", "Amma Mess", "Annapoorna"}},
		{"?city=Madurai", []string{"Murugan Idli", "Amma Mess"}},
		{"?city=Madurai&cuisine=Chettinad", []string{"Amma Mess"}},
		{"?min_rating=4.5", []string{"Murugan Idli"}},
		{"?max_price=300", []string{"Murugan Idli", "Annapoorna"}},
		{"?skip=1&limit=1", []string{"Amma Mess"}},
		{"?city=Thoothukudi", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, data := env.do(t, http.MethodGet, "/api/v1/listings"+tt.query, nil, "")
			require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
			names := []string{}
			for _, l := range decodeListings(t, data) {
				names = append(names, l.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestGetListings_RejectsBadQuery(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"limit=0", "limit=101", "skip=-1", "min_rating=6", "min_rating=high", "max_price=0",
		"min_rating=NaN", "max_price=NaN", "max_price=Inf", "min_rating=-Inf"} {
		t.Run(q, func(t *testing.T) {
			resp, data := env.do(t, http.MethodGet, "/api/v1/listings?"+q, nil, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
			assert.Equal(t, models.CodeValidation, decodeMap(t, data)["code"])
		})
	}
}

func TestSearchAndLists(t *testing.T) {
	env := newTestEnv(t)
	env.createListing(t, models.Listing{Name: "Dosa Corner", City: "Chennai", Cuisine: "South Indian"})
	env.createListing(t, models.Listing{Name: "Dosa Palace", City: "Madurai", Cuisine: "South Indian"})
	env.createListing(t, models.Listing{Name: "Biryani House", City: "Madurai", Cuisine: "Mughlai"})

	resp, data := env.do(t, http.MethodGet, "/api/v1/listings/search/by-name?q=DOSA", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	body := decodeMap(t, data)
	assert.Equal(t, "DOSA", body["query"])
	assert.Len(t, body["results"], 2)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/listings/search/by-name?q=d", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = env.do(t, http.MethodGet, "/api/v1/listings/cities/list", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeMap(t, data)["cities"], 2)

	resp, data = env.do(t, http.MethodGet, "/api/v1/listings/cuisines/list", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeMap(t, data)["cuisines"], 2)
}

func TestGetListing(t *testing.T) {
	env := newTestEnv(t)
	l := env.createListing(t, models.Listing{Name: "Sree Annapoorna", City: "Coimbatore"})
	require.NoError(t, env.db.Model(l).Update("is_active", false).Error)

	resp, data := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d", l.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, false, decodeMap(t, data)["is_active"], "soft-deleted listings stay addressable")

	resp, data = env.do(t, http.MethodGet, "/api/v1/listings/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, decodeMap(t, data)["code"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/listings/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListingMutations_AccessTiers(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "ravi", models.RoleUser)
	_, adminToken := env.createUser(t, "admin_one", models.RoleAdmin)

	payload := map[string]any{
		"name":      "Hotel Saravana",
		"city":      "Chennai",
		"area":      "Mylapore",
		"cuisine":   "South Indian",
		"avg_price": 300,
		"latitude":  13.03,
		"longitude": 80.27,
		"rating":    5,
	}

	resp, _ := env.do(t, http.MethodPost, "/api/v1/listings", payload, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/v1/listings", payload, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data := env.do(t, http.MethodPost, "/api/v1/listings", payload, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := decodeMap(t, data)
	assert.Equal(t, 0.0, created["rating"], "rating is never client-writable")
	assert.Equal(t, 1.0, created["spending_index"])
	id := uint(created["id"].(float64))

	resp, data = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/listings/%d", id),
		map[string]any{"avg_price": 350, "review_count": 99}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	updated := decodeMap(t, data)
	assert.Equal(t, 350.0, updated["avg_price"])
	assert.Equal(t, 0.0, updated["review_count"])

	resp, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/listings/%d", id),
		map[string]any{"city": "Mumbai"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/listings/%d", id), nil, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/listings/%d", id), nil, adminToken)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = env.do(t, http.MethodGet, "/api/v1/listings", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeListings(t, data))

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/listings/9999", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateListing_InvalidBody(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin_one", models.RoleAdmin)

	resp, data := env.do(t, http.MethodPost, "/api/v1/listings", map[string]any{
		"name": "No City", "area": "X", "cuisine": "Y", "avg_price": 100,
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
}

func TestReviewsAndRecompute(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "meena", models.RoleUser)
	_, adminToken := env.createUser(t, "admin_one", models.RoleAdmin)
	l := env.createListing(t, models.Listing{Name: "Kumar Mess", City: "Madurai"})
	path := fmt.Sprintf("/api/v1/listings/%d/reviews", l.ID)

	resp, _ := env.do(t, http.MethodPost, path, map[string]any{"rating": 4}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, path, map[string]any{"rating": 6}, userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, score := range []float64{4, 5} {
		resp, data := env.do(t, http.MethodPost, path, map[string]any{"rating": score, "comment": "Great kari dosai"}, userToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	}

	resp, data := env.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(data, &reviews))
	assert.Len(t, reviews, 2)

	resp, _ = env.do(t, http.MethodGet, path+"?limit=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/v1/listings/9999/reviews", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Recompute is off by default, so the derived fields are still zero.
	resp, data = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/listings/%d", l.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, decodeMap(t, data)["review_count"])

	resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/recompute-rating", l.ID), nil, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/recompute-rating", l.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	body := decodeMap(t, data)
	assert.Equal(t, 4.5, body["rating"])
	assert.Equal(t, 2.0, body["review_count"])

	resp, data = env.do(t, http.MethodPost, "/api/v1/listings/recompute-ratings", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, decodeMap(t, data), "updated")
}

func TestSubmitReview_InactiveListing(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "meena", models.RoleUser)
	l := env.createListing(t, models.Listing{Name: "Shut Down Cafe"})
	require.NoError(t, env.db.Model(l).Update("is_active", false).Error)

	resp, _ := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/reviews", l.ID),
		map[string]any{"rating": 3}, userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
