// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package url

import "regexp"

// Pattern matches http and https URLs. `[$-_@.&+]` is a range from '$' to '_'
// plus '@', '.', '&' and '+', so '/', ':', '?', '=' and upper-case letters
// all match and a space ends the URL.
const Pattern = `http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(\\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`

var urlPattern = regexp.MustCompile(Pattern)

// FindURLs returns every non-overlapping URL in text, left to right.
// Duplicates are kept. No match yields an empty slice.
func FindURLs(text string) []string {
	if text == "" {
		return []string{}
	}
	matches := urlPattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
