package sdk

import (
	"encoding/binary"
	"fmt"
)

// MockRuntime is a single-transaction in-memory runtime for unit tests. It
// commits nothing and performs no object-naming checks.
type MockRuntime struct {
	EnvValue Env
	State    map[string]string
	Custody  map[string]uint64
	Accounts map[Address]uint64
	Events   []string
	nextID   uint64
}

// NewMockRuntime starts with empty state and the given sender.
func NewMockRuntime(sender Address, now int64) *MockRuntime {
	return &MockRuntime{
		EnvValue: Env{Sender: sender, TxDigest: "mocktx", Timestamp: now},
		State:    map[string]string{},
		Custody:  map[string]uint64{},
		Accounts: map[Address]uint64{},
	}
}

func (m *MockRuntime) Env() Env { return m.EnvValue }

func (m *MockRuntime) Get(key string) *string {
	v, ok := m.State[key]
	if !ok {
		return nil
	}
	return &v
}

func (m *MockRuntime) Set(key, value string) { m.State[key] = value }

func (m *MockRuntime) Delete(key string) { delete(m.State, key) }

func (m *MockRuntime) Emit(line string) { m.Events = append(m.Events, line) }

func (m *MockRuntime) NewObjectID() ObjectID {
	m.nextID++
	var id ObjectID
	binary.BigEndian.PutUint64(id[ObjectIDLen-8:], m.nextID)
	id[0] = 0xee
	return id
}

func (m *MockRuntime) CustodyValue(id ObjectID, slot string) uint64 {
	return m.Custody[custodyCell(id, slot)]
}

func (m *MockRuntime) SetCustody(id ObjectID, slot string, amount uint64) {
	m.Custody[custodyCell(id, slot)] = amount
}

func (m *MockRuntime) Debit(addr Address, amount uint64) bool {
	if m.Accounts[addr] < amount {
		return false
	}
	m.Accounts[addr] -= amount
	return true
}

func (m *MockRuntime) Credit(addr Address, amount uint64) { m.Accounts[addr] += amount }

// Total sums accounts and custody, the quantity every transaction must conserve.
func (m *MockRuntime) Total() uint64 {
	var total uint64
	for _, v := range m.Accounts {
		total += v
	}
	for _, v := range m.Custody {
		total += v
	}
	return total
}

func custodyCell(id ObjectID, slot string) string {
	return fmt.Sprintf("%s/%s", id, slot)
}
