package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/aaravmahajanofficial/stock-manager/internal/services"
	"github.com/aaravmahajanofficial/stock-manager/pkg/sendgrid"
	"github.com/google/uuid"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) Send(ctx context.Context, email *sendgrid.Email) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockEmailService) GetSendGridClient() *sg.Client {
	return nil
}

func TestEmailLowStockNotifier(t *testing.T) {
	t.Run("Success - One product", func(t *testing.T) {
		// Arrange
		email := new(mockEmailService)
		notifier := service.NewEmailLowStockNotifier(email, "owner@example.com")

		email.On("Send", mock.Anything, mock.MatchedBy(func(e *sendgrid.Email) bool {
			return e.To == "owner@example.com" &&
				e.Subject == "Low stock: Widget & Co" &&
				assert.Contains(t, e.HTMLContent, "Widget &amp; Co")
		})).Return(nil).Once()

		// Act
		err := notifier.NotifyLowStock(t.Context(), []service.LowStockAlert{
			{ProductID: uuid.New(), Name: "Widget & Co", InStock: 3, Threshold: 10},
		})

		// Assert
		require.NoError(t, err)
		email.AssertExpectations(t)
	})

	t.Run("Success - Several products share one message", func(t *testing.T) {
		// Arrange
		email := new(mockEmailService)
		notifier := service.NewEmailLowStockNotifier(email, "owner@example.com")

		email.On("Send", mock.Anything, mock.MatchedBy(func(e *sendgrid.Email) bool {
			return e.Subject == "Low stock: 2 products"
		})).Return(nil).Once()

		// Act
		err := notifier.NotifyLowStock(t.Context(), []service.LowStockAlert{
			{ProductID: uuid.New(), Name: "A", InStock: 1, Threshold: 10},
			{ProductID: uuid.New(), Name: "B", InStock: 0, Threshold: 10},
		})

		// Assert
		require.NoError(t, err)
		email.AssertExpectations(t)
	})

	t.Run("Success - Nothing to send", func(t *testing.T) {
		// Arrange
		email := new(mockEmailService)
		notifier := service.NewEmailLowStockNotifier(email, "owner@example.com")

		// Act
		err := notifier.NotifyLowStock(t.Context(), nil)

		// Assert
		require.NoError(t, err)
		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Provider error", func(t *testing.T) {
		// Arrange
		email := new(mockEmailService)
		notifier := service.NewEmailLowStockNotifier(email, "owner@example.com")
		email.On("Send", mock.Anything, mock.Anything).Return(errors.New("status 500")).Once()

		// Act
		err := notifier.NotifyLowStock(t.Context(), []service.LowStockAlert{{Name: "A"}})

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}

func TestNoopLowStockNotifier(t *testing.T) {
	assert.NoError(t, service.NewNoopLowStockNotifier().NotifyLowStock(t.Context(), []service.LowStockAlert{{Name: "A"}}))
}
