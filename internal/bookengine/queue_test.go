package bookengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradsys/venue/internal/models"
)

func bidOrder(id int64, price float64, at time.Time) *models.BookOrder {
	return &models.BookOrder{ID: id, Price: price, Size: 10.0, Side: models.SideBuy, Type: models.OrderTypeLimit, OpenAt: at}
}

func askOrder(id int64, price float64, at time.Time) *models.BookOrder {
	return &models.BookOrder{ID: id, Price: price, Size: 10.0, Side: models.SideSell, Type: models.OrderTypeLimit, OpenAt: at}
}

func bidsFixture() *Queue {
	q := newQueue(models.SideBuy)
	base := time.Now()
	q.Insert(bidOrder(1, 1.01, base))
	q.Insert(bidOrder(2, 1.02, base.Add(time.Millisecond)))
	q.Insert(bidOrder(3, 1.02, base.Add(2*time.Millisecond)))
	return q
}

func asksFixture() *Queue {
	q := newQueue(models.SideSell)
	base := time.Now()
	q.Insert(askOrder(1, 1.01, base))
	q.Insert(askOrder(2, 1.02, base.Add(time.Millisecond)))
	q.Insert(askOrder(3, 1.01, base.Add(2*time.Millisecond)))
	return q
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	q := newQueue(models.SideBuy)
	assert.Nil(t, q.Peek())
	assert.True(t, q.Insert(bidOrder(1, 1.01, time.Now())))
	assert.False(t, q.Insert(bidOrder(1, 1.01, time.Now())))
}

func TestBidsOrdering(t *testing.T) {
	q := bidsFixture()
	assert.Equal(t, int64(2), q.Pop().ID) // highest price first
	assert.Equal(t, int64(3), q.Pop().ID) // tie broken by earlier open time
	assert.Equal(t, int64(1), q.Pop().ID)
}

func TestAsksOrdering(t *testing.T) {
	q := asksFixture()
	assert.Equal(t, int64(1), q.Pop().ID) // lowest price first
	assert.Equal(t, int64(3), q.Pop().ID) // tie broken by earlier open time
	assert.Equal(t, int64(2), q.Pop().ID)
}

func TestModifyTOB(t *testing.T) {
	q := bidsFixture()
	assert.True(t, q.ModifyTOB(5.0))
	assert.Equal(t, 5.0, q.Pop().Size)
}

func TestAmend(t *testing.T) {
	q := asksFixture()
	assert.True(t, q.Amend(1, 1.0))
	assert.True(t, q.Amend(2, 2.0))
	assert.True(t, q.Amend(3, 3.0))

	assert.Equal(t, 1.0, q.Pop().Size)
	assert.Equal(t, 3.0, q.Pop().Size)
	assert.Equal(t, 2.0, q.Pop().Size)
}

func TestCancelBid(t *testing.T) {
	q := bidsFixture()
	assert.True(t, q.Cancel(2))
	assert.Equal(t, int64(3), q.Pop().ID)
	assert.Equal(t, int64(1), q.Pop().ID)
}

func TestCancelAsk(t *testing.T) {
	q := asksFixture()
	assert.True(t, q.Cancel(1))
	assert.Equal(t, int64(3), q.Pop().ID)
	assert.Equal(t, int64(2), q.Pop().ID)
}

func TestCancelUnknownIDFails(t *testing.T) {
	q := newQueue(models.SideBuy)
	assert.False(t, q.Cancel(99))
}
