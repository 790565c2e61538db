// Copyright (c) 2025, The craftgraph Authors.  All rights reserved.
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

// Package stack models the identity of an item stack: an item id, a quantity
// and an optional variant index.
//
// Stack is a comparable value. Two stacks are equal when item, quantity and
// variant all match, so a Stack can be used directly as a map key. Compare
// defines the total order used for sorted output.
//
// Text form:
//
//	minecraft:stick          one stick, no variant
//	4xminecraft:planks       four planks
//	minecraft:dye@4          one dye, variant 4
//	3xminecraft:wool@14      three wool, variant 14
package stack
