package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestTransactionLifecycle(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "alice", "password123")
	token := app.loginUser(t, "alice", "password123")

	var transactionID float64

	t.Run("create", func(t *testing.T) {
		body := `{"amount":42.50,"category":"groceries","description":"weekly shop","date":"2024-03-15","type":"expense"}`
		rec := app.request("POST", "/api/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		transactionID = tx["id"].(float64)
		if tx["amount"] != 42.50 {
			t.Errorf("expected amount 42.50, got %v", tx["amount"])
		}
		if tx["date"] != "2024-03-15" {
			t.Errorf("expected date 2024-03-15, got %v", tx["date"])
		}
		if tx["type"] != "expense" {
			t.Errorf("expected type expense, got %v", tx["type"])
		}
	})

	t.Run("get", func(t *testing.T) {
		rec := app.request("GET", fmt.Sprintf("/api/transactions/%d", int(transactionID)), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["category"] != "groceries" {
			t.Errorf("expected category groceries, got %v", tx["category"])
		}
	})

	t.Run("partial update", func(t *testing.T) {
		rec := app.request("PUT", fmt.Sprintf("/api/transactions/%d", int(transactionID)), `{"amount":50}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["amount"] != 50.0 {
			t.Errorf("expected amount 50, got %v", tx["amount"])
		}
		if tx["category"] != "groceries" {
			t.Errorf("untouched category changed: %v", tx["category"])
		}
		if tx["description"] != "weekly shop" {
			t.Errorf("untouched description changed: %v", tx["description"])
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.request("DELETE", fmt.Sprintf("/api/transactions/%d", int(transactionID)), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", fmt.Sprintf("/api/transactions/%d", int(transactionID)), "", token)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", rec.Code)
		}
	})
}

func TestTransactionValidation(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "alice", "password123")
	token := app.loginUser(t, "alice", "password123")

	cases := []struct {
		name string
		body string
	}{
		{"missing amount", `{"category":"food","date":"2024-01-01","type":"expense"}`},
		{"missing category", `{"amount":10,"date":"2024-01-01","type":"expense"}`},
		{"bad date format", `{"amount":10,"category":"food","date":"01/01/2024","type":"expense"}`},
		{"unknown type", `{"amount":10,"category":"food","date":"2024-01-01","type":"transfer"}`},
		{"category too long", fmt.Sprintf(`{"amount":10,"category":%q,"date":"2024-01-01","type":"expense"}`, strings.Repeat("a", 51))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.request("POST", "/api/transactions", tc.body, token)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTransactionRequiresAuth(t *testing.T) {
	app := setupApp(t)

	body := `{"amount":10,"category":"food","date":"2024-01-01","type":"expense"}`
	rec := app.request("POST", "/api/transactions", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated create, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/transactions", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated list, got %d", rec.Code)
	}
}

func TestTransactionOwnership(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "alice", "password123")
	app.registerUser(t, "bob", "password123")
	aliceToken := app.loginUser(t, "alice", "password123")
	bobToken := app.loginUser(t, "bob", "password123")

	id := app.createTransaction(t, aliceToken, 100, "salary", "2024-01-01", "income")
	path := fmt.Sprintf("/api/transactions/%d", int(id))

	t.Run("other user cannot read", func(t *testing.T) {
		rec := app.request("GET", path, "", bobToken)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("other user cannot update", func(t *testing.T) {
		rec := app.request("PUT", path, `{"amount":1}`, bobToken)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		rec := app.request("DELETE", path, "", bobToken)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
		rec = app.request("GET", path, "", aliceToken)
		if rec.Code != http.StatusOK {
			t.Errorf("record should survive a forbidden delete, got %d", rec.Code)
		}
	})

	t.Run("list excludes other users", func(t *testing.T) {
		rec := app.request("GET", "/api/transactions", "", bobToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total"] != 0.0 {
			t.Errorf("expected empty ledger for bob, got total %v", result["total"])
		}
	})
}

func TestTransactionListPagination(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "alice", "password123")
	token := app.loginUser(t, "alice", "password123")

	for i := 1; i <= 12; i++ {
		date := fmt.Sprintf("2024-01-%02d", i)
		app.createTransaction(t, token, float64(i), "food", date, "expense")
	}

	t.Run("first page", func(t *testing.T) {
		rec := app.request("GET", "/api/transactions", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		if result["total"] != 12.0 {
			t.Errorf("expected total 12, got %v", result["total"])
		}
		if result["pages"] != 2.0 {
			t.Errorf("expected 2 pages, got %v", result["pages"])
		}
		if result["current_page"] != 1.0 {
			t.Errorf("expected current_page 1, got %v", result["current_page"])
		}

		items := result["items"].([]interface{})
		if len(items) != 10 {
			t.Fatalf("expected 10 items, got %d", len(items))
		}
		first := items[0].(map[string]interface{})
		if first["date"] != "2024-01-12" {
			t.Errorf("expected newest date first, got %v", first["date"])
		}
	})

	t.Run("second page", func(t *testing.T) {
		rec := app.request("GET", "/api/transactions?page=2", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := parseJSON(t, rec)
		items := result["items"].([]interface{})
		if len(items) != 2 {
			t.Errorf("expected 2 items on last page, got %d", len(items))
		}
		if result["current_page"] != 2.0 {
			t.Errorf("expected current_page 2, got %v", result["current_page"])
		}
	})
}

func TestTransactionNotFound(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "alice", "password123")
	token := app.loginUser(t, "alice", "password123")

	rec := app.request("GET", "/api/transactions/9999", "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "TRANSACTION_NOT_FOUND" {
		t.Errorf("expected TRANSACTION_NOT_FOUND, got %v", errObj["code"])
	}
}
