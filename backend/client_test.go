package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/models"
)

func TestUpdateOrderStatusSendsStatusBody(t *testing.T) {
	var gotPath, gotMethod, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod, gotAuth = r.URL.Path, r.Method, r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second)
	require.NoError(t, c.UpdateOrderStatus(context.Background(), 1002, models.StatusShipped))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/admin/orders/1002/status", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, map[string]string{"status": "shipped"}, gotBody)
}

func TestListOrdersDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/orders", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":1,"customerName":"Ana","status":"pending","total":12.5,"items":[]}]`)
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL, "", time.Second).ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Ana", orders[0].CustomerName)
	assert.Equal(t, "12.5", orders[0].Total.String())
}

func TestBackendErrorDetail(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   string
	}{
		"detail string": {http.StatusBadRequest, `{"detail":"Insufficient stock for Mug"}`, "Insufficient stock for Mug"},
		"detail list":   {http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"bad phone"}]}`, "field required; bad phone"},
		"error key":     {http.StatusConflict, `{"error":"invalid transition"}`, "invalid transition"},
		"plain text":    {http.StatusBadGateway, `upstream down`, "upstream down"},
		"empty":         {http.StatusInternalServerError, ``, "Internal Server Error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", time.Second).PlaceOrder(context.Background(), models.PlaceOrderRequest{})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Detail)
			assert.Equal(t, tc.want, Message(err))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", time.Second).ListCustomers(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, "backend unavailable, please try again", Message(err))
	assert.False(t, IsTransport(errors.New("other")))
}

func TestUploadImageSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "mug.png", header.Filename)
		assert.Equal(t, "PNGDATA", string(content))
		_, _ = io.WriteString(w, `{"imageUrl":"https://cdn.example.com/mug.png"}`)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "", time.Second).UploadImage(context.Background(), "mug.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/mug.png", res.ImageURL)
}

func TestChatPathsEscapePhone(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"phoneNumber":"+1 555","messages":[]}`)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.ChatHistory(context.Background(), "+1 555")
	require.NoError(t, err)
	require.NoError(t, c.SendChatMessage(context.Background(), "+1 555", "hello"))

	assert.Equal(t, []string{"/admin/chats/+1%20555", "/admin/chats/+1%20555/send"}, paths)
}
