// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// ProgressResponse describes how far along one user's form is.
type ProgressResponse struct {
	UserID        string `json:"user_id"`
	Completed     int    `json:"completed"`
	Total         int    `json:"total"`
	Percent       int    `json:"percent"`
	CategoryIndex int    `json:"category_index"`
	CategoryCount int    `json:"category_count"`
	Completing    bool   `json:"completing"`
}

// ResetResponse confirms an admin-initiated state wipe.
type ResetResponse struct {
	Status string `json:"status"`
}
