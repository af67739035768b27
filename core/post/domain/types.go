// Copyright 2025 Nhat-Nguyen Nguyen
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

package domain

import (
	"strconv"
	"time"

	"photogram/modules/entity"
)

type Visibility string

const (
	Public  Visibility = "PUBLIC"
	Private Visibility = "PRIVATE"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type (
	// Post is a published photo with its caption. Likes is the number of
	// distinct users that liked it.
	Post struct {
		ID           entity.ID
		UserID       entity.ID
		Caption      string
		Location     string
		ImageID      entity.ID
		Likes        int64
		Visibility   Visibility
		CreationDate time.Time
		Comments     []Comment

		Version int64
	}

	Comment struct {
		ID           entity.ID
		PostID       entity.ID
		UserID       entity.ID
		Content      string
		CreationDate time.Time
	}

	NewPost struct {
		Caption    string     `validate:"max=2048"`
		Location   string     `validate:"max=128"`
		ImageID    entity.ID  `validate:"required"`
		Visibility Visibility `validate:"omitempty,oneof=PUBLIC PRIVATE"`
	}

	PostChanges struct {
		Caption    *string     `validate:"omitnil,max=2048"`
		Location   *string     `validate:"omitnil,max=128"`
		Visibility *Visibility `validate:"omitnil,oneof=PUBLIC PRIVATE"`

		ExpectedVersion int64
	}

	NewComment struct {
		Content string `validate:"required,min=1,max=1024"`
	}

	// Pivot is the last row of a page in (creation_date DESC, id DESC) order.
	Pivot struct {
		CreationDate time.Time `json:"creation_date"`
		ID           entity.ID `json:"id"`
	}

	// PostQuery selects posts newest first. Without IncludePrivate only
	// PUBLIC posts and those of ViewerID are returned.
	PostQuery struct {
		ViewerID       entity.ID
		AuthorID       entity.ID
		IncludePrivate bool
		After          *Pivot
		Limit          int
	}

	Page struct {
		Posts []Post
		Next  string
	}
)

func (p Post) EntityID() entity.ID {
	return p.ID
}

func (p *Post) V() string {
	return strconv.FormatInt(p.Version, 10)
}

func (p Post) Pivot() Pivot {
	return Pivot{CreationDate: p.CreationDate, ID: p.ID}
}

func (c Comment) EntityID() entity.ID {
	return c.ID
}

func (c PostChanges) Empty() bool {
	return c.Caption == nil && c.Location == nil && c.Visibility == nil
}
