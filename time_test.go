/*
 * Copyright (c) 2020 Siemens AG
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 *
 * Author(s): Jonas Plum
 */

package amcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromFiletime(t *testing.T) {
	assert.Equal(t, time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), FromFiletime(131277024000000000))
	assert.Equal(t, time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC), FromFiletime(0))
	assert.Equal(t, time.Date(2017, 1, 1, 0, 0, 0, 700, time.UTC), FromFiletime(131277024000000007))
}

func TestFromUnixTime(t *testing.T) {
	assert.Equal(t, time.Date(1992, 6, 19, 22, 22, 17, 0, time.UTC), FromUnixTime(708992537))
	assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), FromUnixTime(0))
}

func TestParseDateString(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    int64
		wantOK  bool
		wantErr bool
	}{
		{"valid", "01/15/2018 10:00:00", 1516010400, true, false},
		{"epoch", "01/01/1970 00:00:00", 0, true, false},
		{"empty", "", 0, false, false},
		{"malformed", "15/45/2018", 0, false, true},
		{"partial", "01/15/2018", 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseDateString(tt.date)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got.Unix())
			}
		})
	}
}
