package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCPF(t *testing.T) {
	tests := []struct {
		name    string
		cpf     string
		want    string
		wantErr bool
	}{
		{name: "valid plain", cpf: "52998224725", want: "52998224725"},
		{name: "valid formatted", cpf: "529.982.247-25", want: "52998224725"},
		{name: "wrong first check digit", cpf: "52998224735", wantErr: true},
		{name: "wrong second check digit", cpf: "52998224726", wantErr: true},
		{name: "all digits equal", cpf: "11111111111", wantErr: true},
		{name: "too short", cpf: "1234567890", wantErr: true},
		{name: "too long", cpf: "123456789012", wantErr: true},
		{name: "empty", cpf: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCPF(tt.cpf)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCPF)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("Maria Silva", "maria@example.com", "52998224725", "11988887777", "Rua A, 10")

	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Maria Silva", client.Name)
	assert.Equal(t, "maria@example.com", client.Email)
	assert.Equal(t, "52998224725", client.CPF)
	assert.True(t, client.Active)
	assert.False(t, client.CreatedAt.IsZero())
	assert.False(t, client.UpdatedAt.IsZero())
}

func TestClientPatch_Apply(t *testing.T) {
	client := NewClient("Maria Silva", "maria@example.com", "52998224725", "11988887777", "Rua A, 10")

	var patch ClientPatch
	patch.Phone.Value = "11999990000"
	patch.Phone.Set = true
	patch.Active.Value = false
	patch.Active.Set = true

	err := patch.Apply(client)

	assert.NoError(t, err)
	assert.Equal(t, "11999990000", client.Phone)
	assert.False(t, client.Active)
	// untouched fields keep their values
	assert.Equal(t, "Maria Silva", client.Name)
	assert.Equal(t, "maria@example.com", client.Email)
}

func TestClientPatch_Apply_InvalidCPF(t *testing.T) {
	client := NewClient("Maria Silva", "maria@example.com", "52998224725", "", "")

	var patch ClientPatch
	patch.CPF.Value = "00000000000"
	patch.CPF.Set = true

	err := patch.Apply(client)

	assert.ErrorIs(t, err, ErrInvalidCPF)
	assert.Equal(t, "52998224725", client.CPF)
}
