package storefront

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// fakeUpstream — минимальная реализация REST API Dr. Hope в памяти.
type fakeUpstream struct {
	t *testing.T

	mu             sync.Mutex
	users          map[string]*models.User
	tokens         map[string]int
	products       map[int]models.Product
	workshops      []models.Workshop
	carts          map[int][]models.CartItem
	nextID         int
	calls          map[string]int
	failCartUpdate bool
	failSources    map[string]bool
	activeSession  bool
	// failSubscriptions — сколько ближайших созданий подписки отклонить.
	failSubscriptions int
	failPayment       bool
}

func newFakeUpstream(t *testing.T) (*fakeUpstream, *httptest.Server) {
	f := &fakeUpstream{
		t:      t,
		users:  map[string]*models.User{},
		tokens: map[string]int{},
		products: map[int]models.Product{
			101: {ID: 101, Title: "كتاب الوعي", Price: decimal.NewFromInt(75), Stock: 10},
			102: {ID: 102, Title: "دفتر", Price: decimal.RequireFromString("20.50"), Stock: 5},
		},
		workshops: []models.Workshop{
			{ID: 3, Title: "ورشة التوازن", Type: models.WorkshopRecorded, IsVisible: true,
				Recordings: []models.Recording{{ID: 1, Title: "الجزء الأول", URL: "https://cdn/1.mp4"}}},
			{ID: 4, Title: "ورشة الشفاء", Type: models.WorkshopOnline, IsVisible: true},
		},
		carts:       map[int][]models.CartItem{},
		nextID:      100,
		calls:       map[string]int{},
		failSources: map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", f.login)
	mux.HandleFunc("POST /api/register", f.register)
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, _ *http.Request) { f.ok(w, nil) })
	mux.HandleFunc("GET /api/profile/details", f.authed(func(w http.ResponseWriter, _ *http.Request, u *models.User) {
		f.ok(w, u)
	}))
	mux.HandleFunc("GET /api/profile/suggest-workshops", f.authed(func(w http.ResponseWriter, _ *http.Request, _ *models.User) {
		f.ok(w, f.workshops[1:])
	}))
	mux.HandleFunc("POST /api/profile/review", f.authed(f.review))
	mux.HandleFunc("GET /api/countries", func(w http.ResponseWriter, _ *http.Request) {
		f.ok(w, []models.Country{{ID: 1, Name: "الإمارات", Code: "AE", PhoneCode: "971"}})
	})
	mux.HandleFunc("GET /api/home/settings", func(w http.ResponseWriter, _ *http.Request) {
		f.ok(w, map[string]any{"hero_title": "Dr. Hope"})
	})
	mux.HandleFunc("GET /api/workshops", func(w http.ResponseWriter, _ *http.Request) { f.ok(w, f.workshops) })
	mux.HandleFunc("GET /api/home/earliest-workshop", func(w http.ResponseWriter, _ *http.Request) { f.ok(w, f.workshops[0]) })
	for _, src := range []string{"videos", "gallery", "instagram-lives", "partners", "products", "reviews"} {
		mux.HandleFunc("GET /api/drhope/"+src, f.content(src))
	}
	mux.HandleFunc("POST /api/drhope/support", func(w http.ResponseWriter, _ *http.Request) { f.ok(w, nil) })
	mux.HandleFunc("POST /api/cart/add", f.authed(f.cartAdd))
	mux.HandleFunc("GET /api/cart/summary", f.authed(f.cartSummary))
	mux.HandleFunc("PUT /api/cart/update", f.authed(f.cartUpdate))
	mux.HandleFunc("DELETE /api/cart/delete-item", f.authed(f.cartDelete))
	mux.HandleFunc("GET /api/orders/summary", f.authed(f.cartSummary))
	mux.HandleFunc("POST /api/orders/create", f.authed(f.createOrder))
	mux.HandleFunc("POST /api/subscriptions/create", f.authed(f.createSubscription))
	mux.HandleFunc("POST /api/subscriptions/process-payment", f.authed(f.processPayment))
	mux.HandleFunc("POST /api/subscriptions/buy-charity", f.authed(func(w http.ResponseWriter, _ *http.Request, _ *models.User) {
		f.ok(w, models.PaymentResult{CharityID: 9, PaymentURL: "https://pay/9", Status: "pending"})
	}))
	mux.HandleFunc("POST /api/subscriptions/process-charity-payment", f.authed(func(w http.ResponseWriter, _ *http.Request, _ *models.User) {
		f.ok(w, models.PaymentResult{CharityID: 9, Status: "paid"})
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.Method+" "+r.URL.Path]++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeUpstream) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

func (f *fakeUpstream) write(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		f.t.Errorf("encode response: %v", err)
	}
}

func (f *fakeUpstream) ok(w http.ResponseWriter, data any) {
	f.write(w, http.StatusOK, map[string]any{"key": "success", "msg": "", "data": data})
}

func (f *fakeUpstream) fail(w http.ResponseWriter, status int, key, msg string, fields map[string]any) {
	f.write(w, status, map[string]any{"key": key, "msg": msg, "errors": fields})
}

func (f *fakeUpstream) decode(r *http.Request, v any) {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		f.t.Errorf("decode request %s: %v", r.URL.Path, err)
	}
}

func (f *fakeUpstream) authed(h func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		id, ok := f.tokens[token]
		var user *models.User
		for _, u := range f.users {
			if u.ID == id {
				user = u
			}
		}
		f.mu.Unlock()
		if !ok || user == nil {
			f.fail(w, http.StatusUnauthorized, "unauthenticated", "Unauthenticated.", nil)
			return
		}
		h(w, r, user)
	}
}

func (f *fakeUpstream) addUser(u models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	}
	f.users[u.Email] = &u
	return &u
}

func (f *fakeUpstream) issueToken(u *models.User) string {
	token := fmt.Sprintf("tok-%d-%d", u.ID, time.Now().UnixNano())
	f.tokens[token] = u.ID
	return token
}

func (f *fakeUpstream) login(w http.ResponseWriter, r *http.Request) {
	var body struct{ Email, Phone string }
	f.decode(r, &body)

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[body.Email]
	switch {
	case !ok:
		f.fail(w, http.StatusUnprocessableEntity, "fail", "", map[string]any{"email": []string{"not found"}})
	case u.Phone != body.Phone:
		f.fail(w, http.StatusUnprocessableEntity, "fail", "", map[string]any{"phone": []string{"mismatch"}})
	case f.activeSession:
		f.fail(w, http.StatusOK, "active_session", "", nil)
	default:
		f.ok(w, map[string]any{"token": f.issueToken(u), "user": u})
	}
}

func (f *fakeUpstream) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FullName    string `json:"full_name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		CountryCode string `json:"country_code"`
	}
	f.decode(r, &body)

	f.mu.Lock()
	_, exists := f.users[body.Email]
	f.mu.Unlock()
	if exists {
		f.fail(w, http.StatusUnprocessableEntity, "fail", "البريد مستخدم", map[string]any{"email": []string{"taken"}})
		return
	}
	u := f.addUser(models.User{FullName: body.FullName, Email: body.Email, Phone: body.Phone, CountryCode: body.CountryCode})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ok(w, map[string]any{"token": f.issueToken(u), "user": u})
}

func (f *fakeUpstream) review(w http.ResponseWriter, r *http.Request, u *models.User) {
	var req models.ReviewRequest
	f.decode(r, &req)
	f.ok(w, models.Review{ID: 77, WorkshopID: req.WorkshopID, Rating: req.Rating, Comment: req.Comment, UserName: u.FullName})
}

func (f *fakeUpstream) content(src string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		failing := f.failSources[src]
		f.mu.Unlock()
		if failing {
			f.fail(w, http.StatusInternalServerError, "fail", "server error", nil)
			return
		}
		switch src {
		case "partners":
			f.ok(w, []models.Partner{{ID: 1, Name: "شريك"}})
		case "products":
			f.ok(w, []models.Product{f.products[101], f.products[102]})
		case "reviews":
			f.ok(w, []models.Review{{ID: 1, Rating: 5, Comment: "رائع"}})
		default:
			f.ok(w, []models.MediaItem{{ID: 1, URL: "https://cdn/" + src}})
		}
	}
}

func (f *fakeUpstream) cartAdd(w http.ResponseWriter, r *http.Request, u *models.User) {
	var body struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	f.decode(r, &body)

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[body.ProductID]
	if !ok {
		f.fail(w, http.StatusNotFound, "fail", "المنتج غير موجود", nil)
		return
	}
	items := f.carts[u.ID]
	for i := range items {
		if items[i].ProductID == p.ID {
			items[i].Quantity += body.Quantity
			f.ok(w, nil)
			return
		}
	}
	f.nextID++
	f.carts[u.ID] = append(items, models.CartItem{ID: f.nextID, ProductID: p.ID, Title: p.Title, Price: p.Price, Quantity: body.Quantity})
	f.ok(w, nil)
}

func (f *fakeUpstream) cartSummary(w http.ResponseWriter, _ *http.Request, u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart := models.Cart{Items: append([]models.CartItem(nil), f.carts[u.ID]...)}
	cart.Recalculate(decimal.Zero)
	f.ok(w, cart)
}

func (f *fakeUpstream) cartUpdate(w http.ResponseWriter, r *http.Request, u *models.User) {
	var body struct {
		CartItemID int `json:"cart_item_id"`
		Quantity   int `json:"quantity"`
	}
	f.decode(r, &body)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCartUpdate {
		f.fail(w, http.StatusInternalServerError, "fail", "تعذر تحديث السلة", nil)
		return
	}
	for i := range f.carts[u.ID] {
		if f.carts[u.ID][i].ID == body.CartItemID {
			f.carts[u.ID][i].Quantity = body.Quantity
		}
	}
	f.ok(w, nil)
}

func (f *fakeUpstream) cartDelete(w http.ResponseWriter, r *http.Request, u *models.User) {
	var body struct {
		CartItemID int `json:"cart_item_id"`
	}
	f.decode(r, &body)

	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.carts[u.ID][:0]
	for _, it := range f.carts[u.ID] {
		if it.ID != body.CartItemID {
			items = append(items, it)
		}
	}
	f.carts[u.ID] = items
	f.ok(w, nil)
}

func (f *fakeUpstream) createOrder(w http.ResponseWriter, _ *http.Request, u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart := models.Cart{Items: f.carts[u.ID]}
	cart.Recalculate(decimal.RequireFromString("0.05"))
	f.nextID++
	order := models.Order{ID: f.nextID, Number: fmt.Sprintf("ORD-%d", f.nextID), Status: "pending", Items: cart.Items, Total: cart.Total}
	delete(f.carts, u.ID)
	u.Orders = append(u.Orders, order)
	f.ok(w, order)
}

func (f *fakeUpstream) createSubscription(w http.ResponseWriter, r *http.Request, u *models.User) {
	var req models.SubscriptionRequest
	f.decode(r, &req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSubscriptions > 0 {
		f.failSubscriptions--
		f.fail(w, http.StatusInternalServerError, "fail", "server error", nil)
		return
	}
	f.nextID++
	status := models.StatusPending
	if req.IsApproved {
		status = models.StatusActive
	}
	sub := models.Subscription{
		ID:            f.nextID,
		UserID:        u.ID,
		WorkshopID:    req.WorkshopID,
		PackageID:     req.PackageID,
		Status:        status,
		PaymentMethod: req.PaymentMethod,
		IsApproved:    req.IsApproved,
		IsGift:        req.IsGift,
	}
	if !req.IsGift || req.PaymentMethod == models.PaymentGift {
		u.Subscriptions = append(u.Subscriptions, sub)
	}
	f.ok(w, sub)
}

func (f *fakeUpstream) processPayment(w http.ResponseWriter, r *http.Request, u *models.User) {
	var req models.PaymentRequest
	f.decode(r, &req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPayment {
		f.fail(w, http.StatusPaymentRequired, "fail", "payment declined", nil)
		return
	}
	for i := range u.Subscriptions {
		if u.Subscriptions[i].ID == req.SubscriptionID {
			u.Subscriptions[i].Status = models.StatusActive
		}
	}
	f.ok(w, models.PaymentResult{SubscriptionID: req.SubscriptionID, Status: "paid"})
}
