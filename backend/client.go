package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront-admin/middlewares"
	"storefront-admin/models"
)

// Client talks to the storefront backend, which owns every persisted entity.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.do(ctx, "dashboard_stats", http.MethodGet, "/admin/stats", nil, &stats)
	return stats, err
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, "list_orders", http.MethodGet, "/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, status models.OrderStatus) error {
	body := map[string]models.OrderStatus{"status": status}
	path := "/admin/orders/" + strconv.Itoa(orderID) + "/status"
	return c.do(ctx, "update_order_status", http.MethodPut, path, body, nil)
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.do(ctx, "list_customers", http.MethodGet, "/admin/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// ListAdminProducts includes inactive and out-of-stock products.
func (c *Client) ListAdminProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, "list_admin_products", http.MethodGet, "/admin/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProducts is the public catalog used by checkout.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	err := c.do(ctx, "create_product", http.MethodPost, "/products", p, &created)
	return created, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int, p models.Product) (models.Product, error) {
	var updated models.Product
	err := c.do(ctx, "update_product", http.MethodPut, "/products/"+strconv.Itoa(id), p, &updated)
	return updated, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, "delete_product", http.MethodDelete, "/products/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, "list_categories", http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (models.UploadResult, error) {
	var result models.UploadResult
	err := c.upload(ctx, "upload_image", "/admin/upload", filename, file, &result)
	return result, err
}

func (c *Client) GetSettings(ctx context.Context) (models.BusinessSettings, error) {
	var settings models.BusinessSettings
	err := c.do(ctx, "get_settings", http.MethodGet, "/settings", nil, &settings)
	return settings, err
}

func (c *Client) UpdateSettings(ctx context.Context, update models.BusinessSettingsUpdate) (models.BusinessSettings, error) {
	var settings models.BusinessSettings
	err := c.do(ctx, "update_settings", http.MethodPut, "/settings", update, &settings)
	return settings, err
}

func (c *Client) ListBusinessDetails(ctx context.Context) ([]models.BusinessDetail, error) {
	var details []models.BusinessDetail
	if err := c.do(ctx, "list_business_details", http.MethodGet, "/business/details", nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

func (c *Client) CreateBusinessDetail(ctx context.Context, in models.BusinessDetailInput) (models.BusinessDetail, error) {
	var detail models.BusinessDetail
	err := c.do(ctx, "create_business_detail", http.MethodPost, "/business/details", in, &detail)
	return detail, err
}

func (c *Client) UpdateBusinessDetail(ctx context.Context, id int, in models.BusinessDetailInput) (models.BusinessDetail, error) {
	var detail models.BusinessDetail
	err := c.do(ctx, "update_business_detail", http.MethodPut, "/business/details/"+strconv.Itoa(id), in, &detail)
	return detail, err
}

func (c *Client) DeleteBusinessDetail(ctx context.Context, id int) error {
	return c.do(ctx, "delete_business_detail", http.MethodDelete, "/business/details/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) ListChats(ctx context.Context) ([]models.ChatConversation, error) {
	var chats []models.ChatConversation
	if err := c.do(ctx, "list_chats", http.MethodGet, "/admin/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *Client) ChatHistory(ctx context.Context, phone string) (models.ChatHistory, error) {
	var history models.ChatHistory
	err := c.do(ctx, "chat_history", http.MethodGet, "/admin/chats/"+url.PathEscape(phone), nil, &history)
	return history, err
}

func (c *Client) SendChatMessage(ctx context.Context, phone, message string) error {
	body := models.SendMessageRequest{Message: message}
	return c.do(ctx, "send_chat_message", http.MethodPost, "/admin/chats/"+url.PathEscape(phone)+"/send", body, nil)
}

func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (models.PlaceOrderResponse, error) {
	var resp models.PlaceOrderResponse
	err := c.do(ctx, "place_order", http.MethodPost, "/orders/place", req, &resp)
	return resp, err
}

func (c *Client) UploadPaymentReceipt(ctx context.Context, orderID int, filename string, file io.Reader) (json.RawMessage, error) {
	var result json.RawMessage
	path := "/orders/" + strconv.Itoa(orderID) + "/payment-receipt"
	err := c.upload(ctx, "upload_payment_receipt", path, filename, file, &result)
	return result, err
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	defer func(start time.Time) {
		middlewares.RecordBackendCall(op, err == nil, time.Since(start))
	}(time.Now())

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(op, req, out)
}

func (c *Client) upload(ctx context.Context, op, path, filename string, file io.Reader, out any) (err error) {
	defer func(start time.Time) {
		middlewares.RecordBackendCall(op, err == nil, time.Since(start))
	}(time.Now())

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("%s: build form: %w", op, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("%s: read upload: %w", op, err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("%s: build form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.send(op, req, out)
}

func (c *Client) send(op string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
