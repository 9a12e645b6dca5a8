package integration_test

import (
	"net/http"
	"testing"
	"time"

	"transport_backend/internal/models"
	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationBody struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	IsRead  bool              `json:"isRead"`
	Payload map[string]string `json:"payload"`
}

func bookingPayload() map[string]interface{} {
	return map[string]interface{}{
		"fromAddress":   "Almaty, Abay 10",
		"fromLatitude":  43.238,
		"fromLongitude": 76.945,
		"toAddress":     "Shymkent, Tauke Khan 5",
		"toLatitude":    42.341,
		"toLongitude":   69.590,
		"bookingDate":   time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"truckType":     "closed",
		"loadCapacity":  5,
	}
}

func TestBookings_FanOutToDrivers(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "shipper@example.com", "secret123")
	d1 := helpers.CreateUser(t, ts.DB, "driver1@example.com", "secret123", helpers.WithType(models.UserTypeDriver))
	d2 := helpers.CreateUser(t, ts.DB, "driver2@example.com", "secret123", helpers.WithType(models.UserTypeDriver))

	customer := ts.Login(t, "shipper@example.com", "secret123")
	driver := ts.Login(t, "driver1@example.com", "secret123")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/bookings", customer, bookingPayload())
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var created envelope[struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PaymentStatus string `json:"paymentStatus"`
	}]
	helpers.DecodeJSON(t, body, &created)
	assert.Equal(t, "pending", created.Data.Status)
	assert.Equal(t, "Unpaid", created.Data.PaymentStatus)

	require.Len(t, ts.Push.Batches, 1)
	assert.ElementsMatch(t, []string{d1.ID, d2.ID}, ts.Push.Batches[0])

	res, body = ts.SendRequest(t, http.MethodGet, "/api/notifications", driver, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var list envelope[[]notificationBody]
	helpers.DecodeJSON(t, body, &list)
	require.Len(t, list.Data, 1)
	notification := list.Data[0]
	assert.Equal(t, created.Data.ID, notification.Payload["bookingId"])
	assert.False(t, notification.IsRead)

	// клиент не получает уведомлений о своих заказах
	res, body = ts.SendRequest(t, http.MethodGet, "/api/notifications", customer, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	helpers.DecodeJSON(t, body, &list)
	assert.Empty(t, list.Data)

	res, _ = ts.SendRequest(t, http.MethodPut, "/api/notifications/"+notification.ID+"/read", customer, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/notifications/"+notification.ID+"/read", driver, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/notifications/unread-count", driver, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var unread envelope[struct {
		UnreadCount int64 `json:"unreadCount"`
	}]
	helpers.DecodeJSON(t, body, &unread)
	assert.Zero(t, unread.Data.UnreadCount)
}

func TestBookings_Ownership(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "owner@example.com", "secret123")
	helpers.CreateUser(t, ts.DB, "other@example.com", "secret123")
	owner := ts.Login(t, "owner@example.com", "secret123")
	other := ts.Login(t, "other@example.com", "secret123")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/bookings", owner, bookingPayload())
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var created envelope[struct {
		ID string `json:"id"`
	}]
	helpers.DecodeJSON(t, body, &created)
	path := "/api/bookings/" + created.Data.ID

	res, _ = ts.SendRequest(t, http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/my-bookings", owner, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var mine envelope[[]struct {
		ID string `json:"id"`
	}]
	helpers.DecodeJSON(t, body, &mine)
	require.Len(t, mine.Data, 1)
	assert.Equal(t, int64(1), mine.Pagination.Total)

	res, _ = ts.SendRequest(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestBookings_Validation(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "invalid@example.com", "secret123")
	token := ts.Login(t, "invalid@example.com", "secret123")

	payload := bookingPayload()
	payload["fromLatitude"] = 120.0
	res, body := ts.SendRequest(t, http.MethodPost, "/api/bookings", token, payload)
	require.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	delete(payload, "toAddress")
	payload["fromLatitude"] = 10.0
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/bookings", token, payload)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestVehicles_RegisterAndUpdate(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "trucker@example.com", "secret123", helpers.WithType(models.UserTypeDriver))
	token := ts.Login(t, "trucker@example.com", "secret123")
	photo := uploadImage(t, ts, token)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/vehicles", token, map[string]interface{}{
		"rcNumber": "777ABC02",
		"rcPhoto":  photo.ID,
		"make":     "Volvo",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/vehicles", token, map[string]interface{}{
		"rcNumber": "777ABC02",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/vehicles", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var list envelope[[]struct {
		ID string `json:"id"`
	}]
	helpers.DecodeJSON(t, body, &list)
	require.Len(t, list.Data, 1)
	path := "/api/vehicle/" + list.Data[0].ID

	res, body = ts.SendRequest(t, http.MethodPut, path, token, map[string]interface{}{
		"model":   "FH",
		"rcPhoto": nil,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var updated envelope[struct {
		Make         string  `json:"make"`
		Model        string  `json:"model"`
		RCPhoto      *string `json:"rcPhoto"`
		RCPhotoImage *struct {
			URL string `json:"url"`
		} `json:"rcPhotoImage"`
	}]
	helpers.DecodeJSON(t, body, &updated)
	assert.Equal(t, "Volvo", updated.Data.Make)
	assert.Equal(t, "FH", updated.Data.Model)
	require.NotNil(t, updated.Data.RCPhoto)
	assert.Equal(t, photo.ID, *updated.Data.RCPhoto)
	require.NotNil(t, updated.Data.RCPhotoImage)
	assert.Equal(t, photo.URL, updated.Data.RCPhotoImage.URL)
}
