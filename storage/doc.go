// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the storage abstraction layer for lectern.
//
// Two stores exist with deliberately different shapes:
//
//   - Catalog: the item metadata store. One JSON document holding the full
//     ordered record sequence, loaded wholesale and rewritten wholesale so a
//     reader never observes a structurally invalid partial file. The jsonfile
//     subpackage implements it.
//
//   - AnswerCache: an optional key-value cache of per-item analysis answers.
//     Deep analysis is the expensive part of query resolution, so repeated
//     queries reuse cached answers. The badger subpackage implements it.
//
// Constructors in implementation subpackages return these interfaces to keep
// consumers decoupled from the backend; tests swap in in-memory variants.
//
// All implementations must be safe for concurrent readers. Catalog writers
// are serialized by the implementation (the catalog file format is not safe
// under concurrent writers).
package storage
