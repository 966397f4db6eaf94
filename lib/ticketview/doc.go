// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketview turns the backend's ticket list into the rows a
// staff member sees and carries the mutations made from those rows.
//
// [Apply] is the pure part: a fixed four-stage pipeline of status
// filter, global search, per-column filters and sort, recomputed from
// the full list on every call. [View] is the stateful part: it holds
// the authoritative list, the current [Query] and the selected ticket,
// and sequences fetches with a monotonic epoch so a slow response never
// overwrites a newer one.
package ticketview
