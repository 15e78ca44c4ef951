// Package snmp reads interface MTUs from remote devices over SNMP.
package snmp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	gosnmp "github.com/gosnmp/gosnmp"
)

const (
	oidIfDescr      = "1.3.6.1.2.1.2.2.1.2"
	oidIfMtu        = "1.3.6.1.2.1.2.2.1.4"
	oidIfOperStatus = "1.3.6.1.2.1.2.2.1.8"
	oidIfName       = "1.3.6.1.2.1.31.1.1.1.1"
)

// RemoteInterface is one row of a device's IF-MIB interface table.
type RemoteInterface struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	MTU        int    `json:"mtu"`
	OperStatus string `json:"oper_status"`
}

var ifOperStatusMap = map[int]string{
	1: "up",
	2: "down",
	3: "testing",
	4: "unknown",
	5: "dormant",
	6: "notPresent",
	7: "lowerLayerDown",
}

// Config holds SNMP session settings.
type Config struct {
	Host      string
	Port      uint16
	Community string
	Timeout   time.Duration
	Retries   int
}

// DefaultConfig returns SNMP v2c settings for host.
func DefaultConfig(host string) *Config {
	return &Config{
		Host:      host,
		Port:      161,
		Community: "public",
		Timeout:   5 * time.Second,
		Retries:   1,
	}
}

// Walker walks an OID subtree. *gosnmp.GoSNMP satisfies it.
type Walker interface {
	BulkWalkAll(rootOid string) ([]gosnmp.SnmpPDU, error)
}

// ListInterfaces fetches the interface table of the configured device.
func ListInterfaces(ctx context.Context, cfg *Config) ([]RemoteInterface, error) {
	if cfg.Host == "" || cfg.Community == "" {
		return nil, errors.New("host and community are required")
	}

	g := &gosnmp.GoSNMP{
		Target:    cfg.Host,
		Port:      cfg.Port,
		Transport: "udp",
		Community: cfg.Community,
		Version:   gosnmp.Version2c,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		Context:   ctx,
	}

	if err := g.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect: %w", err)
	}
	defer g.Conn.Close()

	return Collect(g)
}

// Collect walks the interface table and joins names, MTUs and status by index.
func Collect(w Walker) ([]RemoteInterface, error) {
	rows := make(map[int]*RemoteInterface)
	row := func(idx int) *RemoteInterface {
		r, ok := rows[idx]
		if !ok {
			r = &RemoteInterface{Index: idx}
			rows[idx] = r
		}
		return r
	}

	mtus, err := w.BulkWalkAll(oidIfMtu)
	if err != nil {
		return nil, fmt.Errorf("snmp walk ifMtu: %w", err)
	}
	for _, pdu := range mtus {
		idx, err := extractIndex(oidIfMtu, pdu.Name)
		if err != nil {
			continue
		}
		v, err := toInt(pdu)
		if err != nil {
			return nil, fmt.Errorf("parse ifMtu: %w", err)
		}
		row(idx).MTU = v
	}

	descrs, err := w.BulkWalkAll(oidIfDescr)
	if err != nil {
		return nil, fmt.Errorf("snmp walk ifDescr: %w", err)
	}
	setNames(descrs, oidIfDescr, row)

	// ifName is in IF-MIB's ifXTable, which older agents lack.
	if names, err := w.BulkWalkAll(oidIfName); err == nil {
		setNames(names, oidIfName, row)
	}

	if statuses, err := w.BulkWalkAll(oidIfOperStatus); err == nil {
		for _, pdu := range statuses {
			idx, err := extractIndex(oidIfOperStatus, pdu.Name)
			if err != nil {
				continue
			}
			v, err := toInt(pdu)
			if err != nil {
				continue
			}
			status := ifOperStatusMap[v]
			if status == "" {
				status = fmt.Sprintf("unknown(%d)", v)
			}
			row(idx).OperStatus = status
		}
	}

	out := make([]RemoteInterface, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})

	return out, nil
}

// Lookup finds an interface by name, ignoring case.
func Lookup(ifaces []RemoteInterface, name string) (RemoteInterface, bool) {
	for _, r := range ifaces {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return RemoteInterface{}, false
}

func setNames(pdus []gosnmp.SnmpPDU, baseOID string, row func(int) *RemoteInterface) {
	for _, pdu := range pdus {
		idx, err := extractIndex(baseOID, pdu.Name)
		if err != nil {
			continue
		}
		name, err := toString(pdu)
		if err != nil || name == "" {
			continue
		}
		row(idx).Name = name
	}
}

func extractIndex(baseOID, oid string) (int, error) {
	oid = strings.TrimPrefix(oid, ".")
	suffix := strings.TrimPrefix(oid, baseOID+".")
	if suffix == oid {
		return 0, fmt.Errorf("unexpected oid format: %s", oid)
	}
	idx, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("invalid interface index %q: %w", suffix, err)
	}
	return idx, nil
}

func toString(pdu gosnmp.SnmpPDU) (string, error) {
	switch v := pdu.Value.(type) {
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("unexpected type %T for string conversion", pdu.Value)
	}
}

func toInt(pdu gosnmp.SnmpPDU) (int, error) {
	switch v := pdu.Value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("unsupported type %T for integer conversion", pdu.Value)
	}
}
