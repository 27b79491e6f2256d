// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNothingToServe means neither the HTTP nor the gRPC transport was built.
var errNothingToServe = errors.New("nothing to serve: no http or grpc server configured")
