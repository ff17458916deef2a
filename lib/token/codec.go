// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/bureau-foundation/warden/lib/policy"
)

// Payload field numbers; see the package comment for the schema.
const (
	fieldAccountID = 1
	fieldLastLogin = 2
	fieldNotBefore = 3
	fieldNotAfter  = 4
	fieldPolicies  = 5
)

// Bytes encodes the payload. Fields are emitted in ascending order and
// zero values are omitted, so equal tokens always serialize to equal
// bytes.
func (t *AccessToken) Bytes() []byte {
	var buf []byte
	buf = appendVarintField(buf, fieldAccountID, t.AccountID)
	buf = appendVarintField(buf, fieldLastLogin, unixMilli(t.LastLogin))
	buf = appendVarintField(buf, fieldNotBefore, unixMilli(t.NotBefore))
	buf = appendVarintField(buf, fieldNotAfter, unixMilli(t.NotAfter))
	if bitmap := t.Policies.Bytes(); len(bitmap) > 0 {
		buf = protowire.AppendTag(buf, fieldPolicies, protowire.BytesType)
		buf = protowire.AppendBytes(buf, bitmap)
	}
	return buf
}

func appendVarintField(buf []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.VarintType)
	return protowire.AppendVarint(buf, uint64(v))
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromBytes decodes a payload. Unknown fields are skipped. It returns
// ErrMalformedPayload on framing errors and wraps
// policy.ErrUnknownPolicy when the bitmap carries an unknown bit.
func FromBytes(data []byte) (*AccessToken, error) {
	var (
		accountID, lastLogin, notBefore, notAfter int64
		bitmap                                    []byte
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: bad tag", ErrMalformedPayload)
		}
		data = data[n:]

		switch {
		case typ == protowire.VarintType && num >= fieldAccountID && num <= fieldNotAfter:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: truncated varint in field %d", ErrMalformedPayload, num)
			}
			data = data[n:]
			switch num {
			case fieldAccountID:
				accountID = int64(v)
			case fieldLastLogin:
				lastLogin = int64(v)
			case fieldNotBefore:
				notBefore = int64(v)
			case fieldNotAfter:
				notAfter = int64(v)
			}
		case typ == protowire.BytesType && num == fieldPolicies:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: truncated policy bitmap", ErrMalformedPayload)
			}
			data = data[n:]
			bitmap = v
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("%w: bad field %d", ErrMalformedPayload, num)
			}
			data = data[n:]
		}
	}

	policies, err := policy.ParseSetBytes(bitmap)
	if err != nil {
		return nil, err
	}
	return &AccessToken{
		AccountID: accountID,
		LastLogin: fromUnixMilli(lastLogin),
		NotBefore: fromUnixMilli(notBefore),
		NotAfter:  fromUnixMilli(notAfter),
		Policies:  policies,
	}, nil
}

func fromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
