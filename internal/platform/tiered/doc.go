// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tiered implements the two-tier storage discipline shared by every
reading record (bookmarks, personal plans, shared plans).

Tiers:

  - Local: a fast [Cache] (Redis or embedded Badger). Written synchronously on
    every change so the next read restores instantly.
  - Durable: PostgreSQL. Written behind the caller through [WriteBehind]; a
    failure is logged and left for the next reconcile to repair.

Reconciliation is a single pure function, [Reconcile], keyed on the record's
version timestamp. Whichever tier holds the newer record wins and the other
tier is repaired, so the most recent position is never silently lost.
*/
package tiered
