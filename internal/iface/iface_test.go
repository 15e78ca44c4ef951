package iface

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	ifaces  []Interface
	listErr error
	setErr  error
	sets    []int
}

func (f *fakeManager) List() ([]Interface, error) {
	return f.ifaces, f.listErr
}

func (f *fakeManager) SetMTU(name string, mtu int) error {
	f.sets = append(f.sets, mtu)
	return f.setErr
}

func testInterfaces() []Interface {
	return []Interface{
		{Name: "lo", Index: 1, MTU: 65536, Up: true, Loopback: true, Addrs: []string{"127.0.0.1/8"}},
		{Name: "eth0", Index: 2, MTU: 1500, Up: true, Addrs: []string{"192.0.2.10/24"}},
		{Name: "wg0", Index: 3, MTU: 1420, Up: false},
	}
}

func TestValidateMTU(t *testing.T) {
	tests := []struct {
		name      string
		mtu       int
		returnErr bool
	}{
		{name: "ipv4 minimum", mtu: 68, returnErr: false},
		{name: "ethernet", mtu: 1500, returnErr: false},
		{name: "jumbo", mtu: 9000, returnErr: false},
		{name: "below minimum", mtu: 67, returnErr: true},
		{name: "above maximum", mtu: 65536, returnErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMTU(tc.mtu)
			assert.Equal(t, tc.returnErr, err != nil)
		})
	}
}

func TestApply_SetsMTUOnce(t *testing.T) {
	m := &fakeManager{ifaces: testInterfaces()}

	prev, err := Apply(m, "eth0", 1400)

	require.NoError(t, err)
	assert.Equal(t, 1500, prev)
	assert.Equal(t, []int{1400}, m.sets)
}

func TestApply_SkipsWhenAlreadySet(t *testing.T) {
	m := &fakeManager{ifaces: testInterfaces()}

	prev, err := Apply(m, "wg0", 1420)

	require.NoError(t, err)
	assert.Equal(t, 1420, prev)
	assert.Empty(t, m.sets)
}

func TestApply_RejectsUnknownInterface(t *testing.T) {
	m := &fakeManager{ifaces: testInterfaces()}

	_, err := Apply(m, "eth9", 1400)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "eth9")
	assert.Contains(t, err.Error(), "eth0, lo, wg0")
	assert.Empty(t, m.sets)
}

func TestApply_RejectsInvalidMTU(t *testing.T) {
	m := &fakeManager{ifaces: testInterfaces()}

	_, err := Apply(m, "eth0", 48)

	require.Error(t, err)
	assert.Empty(t, m.sets)
}

func TestApply_PropagatesErrors(t *testing.T) {
	listFail := &fakeManager{listErr: errors.New("netlink socket closed")}
	_, err := Apply(listFail, "eth0", 1400)
	assert.ErrorContains(t, err, "failed to list interfaces")

	setFail := &fakeManager{ifaces: testInterfaces(), setErr: errors.New("operation not permitted")}
	_, err = Apply(setFail, "eth0", 1400)
	assert.ErrorContains(t, err, "operation not permitted")
	assert.Equal(t, []int{1400}, setFail.sets)
}

func TestNames_And_Find(t *testing.T) {
	ifaces := testInterfaces()

	names := Names(ifaces)
	assert.Equal(t, 3, names.Cardinality())
	assert.True(t, names.Contains("eth0"))

	found, ok := Find(ifaces, "wg0")
	assert.True(t, ok)
	assert.Equal(t, 3, found.Index)

	_, ok = Find(ifaces, "missing")
	assert.False(t, ok)
}

func TestInterface_String(t *testing.T) {
	up := Interface{Name: "eth0", MTU: 1500, Up: true, Addrs: []string{"192.0.2.10/24"}}
	assert.Contains(t, up.String(), "eth0")
	assert.Contains(t, up.String(), "1500")
	assert.Contains(t, up.String(), "up")
	assert.Contains(t, up.String(), "192.0.2.10/24")

	down := Interface{Name: "wg0", MTU: 1420}
	assert.Contains(t, down.String(), "down")
}

func TestIsKernelConflictError(t *testing.T) {
	assert.False(t, isKernelConflictError(nil))
	assert.True(t, isKernelConflictError(errors.New("device or resource busy")))
	assert.True(t, isKernelConflictError(errors.New("Resource temporarily unavailable")))
	assert.False(t, isKernelConflictError(errors.New("operation not permitted")))
}

func TestSortByIndex(t *testing.T) {
	ifaces := []Interface{{Name: "c", Index: 3}, {Name: "a", Index: 1}, {Name: "b", Index: 2}}

	sortByIndex(ifaces)

	assert.Equal(t, "a", ifaces[0].Name)
	assert.Equal(t, "c", ifaces[2].Name)
}

func TestNetInterfaces_SortedByIndex(t *testing.T) {
	ifaces, err := netInterfaces()
	require.NoError(t, err)

	for i := 1; i < len(ifaces); i++ {
		assert.Less(t, ifaces[i-1].Index, ifaces[i].Index)
	}
}
