// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Observable is implemented by components that report under a fixed name
type Observable interface {
	// GetComponentName returns the component identifier
	GetComponentName() string
}
