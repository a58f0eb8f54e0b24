package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uhhbai/nutriSnap/internal/types"
)

// MockAIClient is a mock implementation of ai.Client
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) Complete(ctx context.Context, system, message string) (string, error) {
	args := m.Called(ctx, system, message)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) CompleteVision(ctx context.Context, system, userText, imageDataURI string) (string, error) {
	args := m.Called(ctx, system, userText, imageDataURI)
	return args.String(0), args.Error(1)
}

func setupAnalysisServiceTest() (*ServiceImpl, *MockAIClient) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockAI := new(MockAIClient)
	service := NewAnalysisService(mockAI, logger)
	return service, mockAI
}

const testImageURI = "data:image/jpeg;base64,/9j/4AAQ"

func TestAnalysisServiceImpl_AnalyzeImage(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, mockAI := setupAnalysisServiceTest()
		mockAI.On("CompleteVision", mock.Anything, systemPrompt, userPrompt, testImageURI).
			Return(sampleAnalysisJSON, nil).Once()

		result, err := service.AnalyzeImage(ctx, testImageURI)
		require.NoError(t, err)
		assert.Equal(t, "Grilled Chicken Salad", result.Name)
		mockAI.AssertExpectations(t)
	})

	t.Run("rejects non-image payload without calling the gateway", func(t *testing.T) {
		service, mockAI := setupAnalysisServiceTest()

		_, err := service.AnalyzeImage(ctx, "data:application/pdf;base64,JVBERi0")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrBadRequest))
		mockAI.AssertNotCalled(t, "CompleteVision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gateway sentinel propagates", func(t *testing.T) {
		service, mockAI := setupAnalysisServiceTest()
		mockAI.On("CompleteVision", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", types.ErrQuotaExhausted).Once()

		_, err := service.AnalyzeImage(ctx, testImageURI)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrQuotaExhausted))
	})

	t.Run("unparseable reply is malformed", func(t *testing.T) {
		service, mockAI := setupAnalysisServiceTest()
		mockAI.On("CompleteVision", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("this is not JSON", nil).Once()

		_, err := service.AnalyzeImage(ctx, testImageURI)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrMalformedResponse))
	})
}
