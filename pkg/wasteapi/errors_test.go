package wasteapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail":"Product P9 not found"}`, want: "Product P9 not found"},
		{name: "validation list", body: `{"detail":[{"loc":["query","n"],"msg":"ensure this value is less than or equal to 50","type":"value_error"}]}`, want: "query.n: ensure this value is less than or equal to 50"},
		{name: "list without loc", body: `{"detail":[{"msg":"bad"},{"loc":["body",0],"msg":"worse"}]}`, want: "bad; body.0: worse"},
		{name: "null detail", body: `{"detail":null}`, want: ""},
		{name: "object detail", body: `{"detail":{"code":7}}`, want: `{"code":7}`},
		{name: "number detail", body: `{"detail":42}`, want: "42"},
		{name: "no detail", body: `{"error":"x"}`, want: ""},
		{name: "not json", body: `<html>502</html>`, want: ""},
		{name: "empty", body: ``, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}

func TestAPIError_Message(t *testing.T) {
	withDetail := &APIError{StatusCode: 404, Method: "GET", Path: "/dynamic_pricing/P9", Detail: "Product P9 not found"}
	assert.Equal(t, "Product P9 not found", withDetail.Error())

	generic := &APIError{StatusCode: 503, Method: "POST", Path: "/refresh_data"}
	assert.Equal(t, "wasteapi: POST /refresh_data: status 503", generic.Error())

	assert.False(t, IsStatus(nil, 503))
	assert.True(t, IsStatus(generic, 503))
}
