package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func TestPaymentRepository_Transition(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pending moves", func(mt *mtest.T) {
		repo := NewPaymentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		moved, err := repo.Transition(context.Background(), "cs_1", domain.TransactionComplete, domain.PaymentPaid)
		require.NoError(mt, err)
		assert.True(mt, moved)
	})

	mt.Run("final is untouched", func(mt *mtest.T) {
		repo := NewPaymentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		moved, err := repo.Transition(context.Background(), "cs_1", domain.TransactionFailed, domain.PaymentUnpaid)
		require.NoError(mt, err)
		assert.False(mt, moved)
	})
}

func TestPaymentRepository_FindBySession(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewPaymentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lms.payment_transactions", mtest.FirstBatch, bson.D{
			{Key: "id", Value: "tx1"},
			{Key: "session_id", Value: "cs_1"},
			{Key: "user_id", Value: "bob"},
			{Key: "amount", Value: 799.0},
			{Key: "status", Value: "pending"},
		}))

		tx, err := repo.FindBySession(context.Background(), "cs_1")
		require.NoError(mt, err)
		assert.Equal(mt, "tx1", tx.ID)
		assert.Equal(mt, domain.TransactionPending, tx.Status)
		assert.InDelta(mt, 799.0, tx.Amount, 0.001)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewPaymentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lms.payment_transactions", mtest.FirstBatch))

		_, err := repo.FindBySession(context.Background(), "nope")
		assert.ErrorIs(mt, err, domain.ErrTransactionNotFound)
	})
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(duplicateKey())

		err := repo.Create(context.Background(), &domain.User{ID: "u1", Email: "a@example.com"})
		assert.ErrorIs(mt, err, domain.ErrUserExists)
	})
}

func TestUserRepository_UpdateRole_Missing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no match", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateRole(context.Background(), "ghost", domain.RoleAdmin)
		assert.ErrorIs(mt, err, domain.ErrUserNotFound)
	})
}

func TestEnrollmentRepository_CreateCounted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts and increments", func(mt *mtest.T) {
		repo := NewEnrollmentRepository(mt.DB, false)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		err := repo.CreateCounted(context.Background(), domain.NewEnrollment("e1", "bob", "c1", time.Now()))
		require.NoError(mt, err)
	})

	mt.Run("duplicate is already enrolled", func(mt *mtest.T) {
		repo := NewEnrollmentRepository(mt.DB, false)
		mt.AddMockResponses(duplicateKey())

		err := repo.CreateCounted(context.Background(), domain.NewEnrollment("e2", "bob", "c1", time.Now()))
		assert.ErrorIs(mt, err, domain.ErrAlreadyEnrolled)
	})
}

func TestEnrollmentRepository_SaveProgress(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	updated := func(n int) bson.D {
		return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("progress only", func(mt *mtest.T) {
		repo := NewEnrollmentRepository(mt.DB, false)
		mt.AddMockResponses(updated(1))

		completed, err := repo.SaveProgress(context.Background(), "e1", 50, nil)
		require.NoError(mt, err)
		assert.False(mt, completed)
	})

	mt.Run("first completion wins", func(mt *mtest.T) {
		repo := NewEnrollmentRepository(mt.DB, false)
		mt.AddMockResponses(updated(1), updated(1))

		completed, err := repo.SaveProgress(context.Background(), "e1", 100, &at)
		require.NoError(mt, err)
		assert.True(mt, completed)
	})

	mt.Run("already completed", func(mt *mtest.T) {
		repo := NewEnrollmentRepository(mt.DB, false)
		mt.AddMockResponses(updated(0), updated(0))

		completed, err := repo.SaveProgress(context.Background(), "e1", 100, &at)
		require.NoError(mt, err)
		assert.False(mt, completed)
	})
}

func TestCertificateRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate number", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(duplicateKey())

		err := repo.Create(context.Background(), &domain.Certificate{ID: "c1", CertificateNumber: "RTC-2026-AAAAAAAA"})
		assert.ErrorIs(mt, err, domain.ErrCertificateExists)
	})

	mt.Run("unknown number", func(mt *mtest.T) {
		repo := NewCertificateRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lms.certificates", mtest.FirstBatch))

		_, err := repo.FindByNumber(context.Background(), "RTC-2026-BBBBBBBB")
		assert.ErrorIs(mt, err, domain.ErrCertificateNotFound)
	})
}

func TestAnalyticsRepository_UsersByRole(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("groups", func(mt *mtest.T) {
		repo := NewAnalyticsRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "lms.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "student"}, {Key: "count", Value: int64(4)}},
			bson.D{{Key: "_id", Value: "admin"}, {Key: "count", Value: int64(1)}},
		))

		got, err := repo.UsersByRole(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, map[string]int64{"student": 4, "admin": 1}, got)
	})
}
