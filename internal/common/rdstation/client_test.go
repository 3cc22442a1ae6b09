package rdstation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type failingToken struct{}

func (failingToken) Token(context.Context) (string, error) { return "", ErrNoToken }

func createTestConversion() Conversion {
	return Conversion{
		Email:        "ana@empresa.com.br",
		Name:         "Ana Souza",
		Phone:        "(11) 99999-9999",
		CompanyName:  "Empresa X",
		BusinessSize: "11-50",
		UTMSource:    "google",
		UTMCampaign:  "diagnostico",
	}
}

// ==========================
// Client Tests
// ==========================

func TestClient_RegisterConversion(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/platform/events", r.URL.Path)
		assert.Equal(t, "conversion", r.URL.Query().Get("event_type"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"event_uuid":"5408c5a3-4711-4f2e-8d0b-13407a3e30f3"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "Diagnóstico Maturidade em Dados", staticToken("tok-1"), 5*time.Second)
	result, err := client.RegisterConversion(context.Background(), createTestConversion())
	require.NoError(t, err)
	assert.Equal(t, "5408c5a3-4711-4f2e-8d0b-13407a3e30f3", result.EventUUID)

	assert.Equal(t, "CONVERSION", received["event_type"])
	assert.Equal(t, "CDP", received["event_family"])

	payload := received["payload"].(map[string]interface{})
	assert.Equal(t, "Diagnóstico Maturidade em Dados", payload["conversion_identifier"])
	assert.Equal(t, "ana@empresa.com.br", payload["email"])
	assert.Equal(t, "Ana Souza", payload["name"])
	assert.Equal(t, "(11) 99999-9999", payload["personal_phone"])
	assert.Equal(t, "(11) 99999-9999", payload["mobile_phone"])
	assert.Equal(t, "11-50", payload["cf_business_size"])
	assert.Equal(t, "google", payload["cf_utm_source"])
	assert.NotContains(t, payload, "cf_utm_medium")
}

func TestClient_RegisterConversion_MissingFields(t *testing.T) {
	client := NewClient("http://unused", "x", staticToken("t"), time.Second)

	conv := createTestConversion()
	conv.Name = " "
	_, err := client.RegisterConversion(context.Background(), conv)
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	conv = createTestConversion()
	conv.Email = ""
	_, err = client.RegisterConversion(context.Background(), conv)
	assert.ErrorIs(t, err, ErrMissingRequiredFields)
}

func TestClient_RegisterConversion_TokenError(t *testing.T) {
	client := NewClient("http://unused", "x", failingToken{}, time.Second)

	_, err := client.RegisterConversion(context.Background(), createTestConversion())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestClient_RegisterConversion_UnauthorizedInvalidatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":{"error_type":"UNAUTHORIZED"}}`))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, mr.Set(tokenCacheKey, "expired"))

	tokens := NewDBTokenSource(nil, rdb, time.Minute)
	client := NewClient(srv.URL, "x", tokens, time.Second)

	_, err := client.RegisterConversion(context.Background(), createTestConversion())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.False(t, mr.Exists(tokenCacheKey))
}

// ==========================
// Token Source Tests
// ==========================

func TestDBTokenSource_LoadsAndCaches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mock.ExpectQuery("SELECT acess_token FROM rd_marketing_auth ORDER BY id DESC LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"acess_token"}).AddRow("tok-db"))

	source := NewDBTokenSource(db, rdb, 5*time.Minute)

	token, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-db", token)

	// served from redis, no second query expected
	token, err = source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-db", token)
	assert.Equal(t, 5*time.Minute, mr.TTL(tokenCacheKey))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBTokenSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "no rows",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT acess_token").WillReturnRows(sqlmock.NewRows([]string{"acess_token"}))
			},
			wantErr: ErrNoToken,
		},
		{
			name: "empty token",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT acess_token").WillReturnRows(sqlmock.NewRows([]string{"acess_token"}).AddRow(""))
			},
			wantErr: ErrNoToken,
		},
		{
			name: "query failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT acess_token").WillReturnError(errors.New("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			_, err = NewDBTokenSource(db, nil, time.Minute).Token(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
