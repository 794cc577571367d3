// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ipc

import "github.com/fxamacker/cbor/v2"

// encMode encodes with Core Deterministic Encoding, so the same message
// always produces identical bytes.
var encMode cbor.EncMode

// decMode ignores unknown fields.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("ipc: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("ipc: CBOR decoder initialization failed: " + err.Error())
	}
}
