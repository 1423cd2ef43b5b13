//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
)

// TestConcurrentOrders_NoOverspend fires more orders than the wallet can fund.
// Row locks on the wallet must serialise the debits so exactly the affordable
// number succeed and the balance lands on zero.
func (s *EscrowAPITestSuite) TestConcurrentOrders_NoOverspend() {
	const (
		orders     = 20
		affordable = 12
		amount     = uint64(1_000_000)
	)
	s.bootstrap(250, affordable*amount)

	var wg sync.WaitGroup
	var created, insufficient, other atomic.Int64

	for i := 0; i < orders; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			req := s.signedRequest(s.customer, "/api/v1/deliveries", map[string]interface{}{
				"delivery_id":       id,
				"payment_amount":    amount,
				"pickup_location":   "Warehouse A",
				"delivery_location": fmt.Sprintf("Dock %d", id),
			}, fmt.Sprintf("order-%d", id))

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				other.Add(1)
				return
			}
			resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusPaymentRequired:
				insufficient.Add(1)
			default:
				other.Add(1)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	s.T().Logf("concurrent orders: %d created, %d insufficient, %d other",
		created.Load(), insufficient.Load(), other.Load())

	s.Equal(int64(affordable), created.Load())
	s.Equal(int64(orders-affordable), insufficient.Load())
	s.Zero(other.Load())

	token := s.session(s.authority)
	s.Equal(uint64(0), s.balance(token, s.customer.identity()))
}

// TestConcurrentAccept_SingleWinner races several vehicles of the same
// operator for one pending order. Exactly one may bind it.
func (s *EscrowAPITestSuite) TestConcurrentAccept_SingleWinner() {
	vehicles := []string{"AV-001", "AV-002", "AV-003", "AV-004", "AV-005"}
	s.bootstrap(250, 5_000, vehicles...)
	s.Require().Equal(http.StatusCreated, s.createOrder(1, 5_000).Status)

	var wg sync.WaitGroup
	var accepted, conflicted atomic.Int64

	for _, v := range vehicles {
		wg.Add(1)
		go func(vehicleID string) {
			defer wg.Done()
			req := s.signedRequest(s.operator, "/api/v1/deliveries/accept", map[string]interface{}{
				"customer":    s.customer.identity(),
				"delivery_id": 1,
				"vehicle_id":  vehicleID,
			}, "accept-"+vehicleID)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusOK:
				accepted.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			}
		}(v)
	}
	wg.Wait()

	s.Equal(int64(1), accepted.Load())
	s.Equal(int64(len(vehicles)-1), conflicted.Load())

	var busy int
	s.Require().NoError(s.pool.QueryRow(s.T().Context(),
		"SELECT COUNT(*) FROM vehicles WHERE is_busy").Scan(&busy))
	s.Equal(1, busy)
}
