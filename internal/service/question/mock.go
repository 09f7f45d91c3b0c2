package question

import (
	"context"
	"sync/atomic"
)

// MockService implements Service with a fixed outcome.
type MockService struct {
	Page  *ListingPage
	Err   error
	calls atomic.Int64
}

// NewMockService returns a mock serving a small demo page.
func NewMockService() *MockService {
	return &MockService{Page: DemoPage()}
}

// ListQuestions records the call and returns Err if set, otherwise Page.
func (m *MockService) ListQuestions(context.Context) (*ListingPage, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Page, nil
}

// Calls returns how many times ListQuestions was invoked.
func (m *MockService) Calls() int {
	return int(m.calls.Load())
}

// DemoPage returns page 1 of a five question listing with two items per page.
func DemoPage() *ListingPage {
	return &ListingPage{
		CurrentPage: 1,
		PageSize:    2,
		TotalPages:  3,
		TotalItems:  5,
		Items: []ListingItem{
			{
				ID:         RawValue("1"),
				CreateDate: StringValue("2025-01-09T10:15:30.123456"),
				ModifyDate: StringValue("2025-01-09T10:15:30.123456"),
				Author:     StringValue("user1"),
				Subject:    StringValue("How do I start a Spring Boot project?"),
				Published:  RawValue("true"),
				Listed:     RawValue("true"),
			},
			{
				ID:         RawValue("2"),
				CreateDate: StringValue("2025-01-09T11:00:00"),
				ModifyDate: StringValue("2025-01-10T08:30:00"),
				Author:     StringValue("user2"),
				Subject:    StringValue("Rendering lists on the server"),
				Published:  RawValue("false"),
				Listed:     RawValue("true"),
			},
		},
	}
}

var _ Service = (*MockService)(nil)
