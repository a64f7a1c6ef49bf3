package client

import (
	"errors"
	"testing"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{400, KindBadRequest},
		{401, KindUnauthorized},
		{403, KindForbidden},
		{404, KindNotFound},
		{420, KindErrorLimited},
		{422, KindUnprocessableEntity},
		{500, KindInternalServerError},
		{503, KindServiceUnavailable},
		{504, KindGatewayTimeout},
		{520, KindUpstreamServerError},
		{302, KindGenericClientError},
		{405, KindGenericClientError},
		{418, KindGenericClientError},
		{429, KindGenericClientError},
		{502, KindGenericClientError},
	}

	for _, tt := range tests {
		if got := KindForStatus(tt.status); got != tt.want {
			t.Errorf("KindForStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestErrorKind_Retriable(t *testing.T) {
	retriable := map[ErrorKind]bool{
		KindErrorLimited:        true,
		KindInternalServerError: true,
		KindServiceUnavailable:  true,
		KindGatewayTimeout:      true,
		KindUpstreamServerError: true,
	}

	for kind := range kindSentinels {
		if got := kind.Retriable(); got != retriable[kind] {
			t.Errorf("%q.Retriable() = %v, want %v", kind, got, retriable[kind])
		}
	}
}

func TestErrorKind_Class(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want ErrorClass
	}{
		{KindErrorLimited, ErrorClassRateLimit},
		{KindInternalServerError, ErrorClassServer},
		{KindUpstreamServerError, ErrorClassServer},
		{KindNotFound, ErrorClassClient},
		{KindGenericClientError, ErrorClassClient},
	}

	for _, tt := range tests {
		if got := tt.kind.Class(); got != tt.want {
			t.Errorf("%q.Class() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNewESIError_Message(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "json error field",
			body: `{"error":"Error limited message"}`,
			want: "Error limited message",
		},
		{
			name: "plain text body",
			body: "Bad Gateway",
			want: "Bad Gateway",
		},
		{
			name: "json without error field",
			body: `{"message":"nope"}`,
			want: `{"message":"nope"}`,
		},
		{
			name: "error field of wrong type",
			body: `{"error":42}`,
			want: `{"error":42}`,
		},
		{
			name: "json array",
			body: `["x"]`,
			want: `["x"]`,
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &RawResponse{StatusCode: 420, Body: []byte(tt.body)}
			err := NewESIError(resp)

			if err.Message != tt.want {
				t.Errorf("Message = %q, want %q", err.Message, tt.want)
			}
			if err.Kind != KindErrorLimited {
				t.Errorf("Kind = %q, want %q", err.Kind, KindErrorLimited)
			}
			if err.Response != resp {
				t.Error("Response not carried by the error")
			}
		})
	}
}

func TestESIError_Error(t *testing.T) {
	err := NewESIError(&RawResponse{StatusCode: 404, Body: []byte(`{"error":"Character not found"}`)})

	want := "ESI not_found error (status 404): Character not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestESIError_Is(t *testing.T) {
	var err error = NewESIError(&RawResponse{StatusCode: 503})

	if !errors.Is(err, ErrServiceUnavailable) {
		t.Error("errors.Is should match the kind sentinel")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is should not match another kind")
	}

	wrapped := errors.Join(ErrRetryExhausted, err)
	if !errors.Is(wrapped, ErrServiceUnavailable) {
		t.Error("errors.Is should see through wrapping")
	}

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindServiceUnavailable {
		t.Errorf("KindOf() = %q, %v", kind, ok)
	}
}

func TestIsRetriable(t *testing.T) {
	if isRetriable(errors.New("plain")) {
		t.Error("plain errors are not retriable")
	}
	if isRetriable(ErrTransport) {
		t.Error("transport errors are not retriable")
	}
	if !isRetriable(NewESIError(&RawResponse{StatusCode: 520})) {
		t.Error("520 should be retriable")
	}
	if isRetriable(NewESIError(&RawResponse{StatusCode: 422})) {
		t.Error("422 should not be retriable")
	}
}
