// Copyright 2016, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sign

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/util"
)

// Context is the context for a signing operation
type Context struct {
	BaseSasURL      string
	SubscriptionKey string
	sessionID       string
}

// AppName returns the broker name
func (c *Context) AppName() string {
	return "pc-broker"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID = util.NewSessionID()
	}
	return c.sessionID
}

// expiryMargin keeps a token out of use once it is close enough to expiry
// that an in-flight fetch could outlive it.
const expiryMargin = 5 * time.Minute

const tokenCacheSize = 64

type sasToken struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"msft:expiry"`
}

// Signer appends time-limited access tokens to asset hrefs. Tokens are
// fetched from the signing endpoint per storage account and container, and
// reused until they near expiry.
type Signer struct {
	context *Context
	tokens  *lru.Cache[string, sasToken]
	now     func() time.Time
}

// NewSigner creates a Signer bound to a signing context
func NewSigner(signContext *Context) *Signer {
	tokens, _ := lru.New[string, sasToken](tokenCacheSize)
	return &Signer{context: signContext, tokens: tokens, now: time.Now}
}

// Resolve extracts the asset registered under the given role from an item.
// A missing role is a request-construction error.
func Resolve(item model.ItemRecord, assetRole string) (model.AssetRef, error) {
	ref, ok := item.Asset(assetRole)
	if !ok {
		return model.AssetRef{}, fmt.Errorf("item %v has no asset with role %q", item.ID, assetRole)
	}
	return ref, nil
}

// Sign returns a copy of the ref whose href carries an access token. Signing
// is additive: the unsigned base path is never rewritten. Calling Sign on an
// already-signed ref is a no-op. When no subscription key is configured and
// the signing endpoint refuses to issue a token, the ref is returned
// unsigned; any permission failure then surfaces at fetch time.
func (s *Signer) Sign(ctx context.Context, ref model.AssetRef) (model.AssetRef, error) {
	parsed, err := url.Parse(ref.Href)
	if err != nil {
		return ref, util.LogSimpleErr(s.context, fmt.Sprintf("Failed to parse asset href %v.", ref.Href), err)
	}
	if isSigned(parsed) {
		return ref, nil
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		// non-storage hrefs (s3://, file paths) are not signable
		return ref, nil
	}

	token, err := s.token(ctx, parsed)
	if err != nil {
		if util.IsClientErr(err) && s.context.SubscriptionKey == "" {
			util.LogAlert(s.context, fmt.Sprintf("Signing endpoint refused anonymous token for %v; continuing unsigned.", parsed.Host))
			return ref, nil
		}
		return ref, err
	}
	if token.Token == "" {
		return ref, nil
	}

	signed := ref
	if parsed.RawQuery == "" {
		signed.Href = ref.Href + "?" + token.Token
	} else {
		signed.Href = ref.Href + "&" + token.Token
	}
	return signed, nil
}

// token returns a cached or freshly-fetched token for the href's storage
// account and container.
func (s *Signer) token(ctx context.Context, assetURL *url.URL) (sasToken, error) {
	account := strings.SplitN(assetURL.Host, ".", 2)[0]
	container := strings.SplitN(strings.TrimPrefix(assetURL.Path, "/"), "/", 2)[0]
	if account == "" || container == "" {
		return sasToken{}, fmt.Errorf("cannot derive storage account and container from %v", assetURL)
	}
	key := account + "/" + container

	if cached, ok := s.tokens.Get(key); ok {
		if s.now().Add(expiryMargin).Before(cached.Expiry) {
			return cached, nil
		}
		s.tokens.Remove(key)
	}

	inputURL := strings.TrimRight(s.context.BaseSasURL, "/") + "/token/" + account + "/" + container
	var token sasToken
	if _, err := util.ReqByObjJSON(ctx, util.ReqInput{
		Method:          "GET",
		URL:             inputURL,
		SubscriptionKey: s.context.SubscriptionKey,
	}, &token); err != nil {
		if httpErr, ok := err.(util.HTTPErr); ok {
			util.LogAlert(s.context, fmt.Sprintf("Signing endpoint returned %v for %v", httpErr.Status, inputURL))
			return sasToken{}, httpErr
		}
		return sasToken{}, util.LogSimpleErr(s.context, fmt.Sprintf("Failed to fetch signing token from %v.", inputURL), err)
	}

	s.tokens.Add(key, token)
	return token, nil
}

// isSigned reports whether the href already carries an access token
func isSigned(assetURL *url.URL) bool {
	query := assetURL.Query()
	return query.Get("sig") != ""
}
