package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func postJSON(path, body string, cookies ...*http.Cookie) *http.Response {
	req, err := http.NewRequest("POST", ts.BaseURL+path, strings.NewReader(body))
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "eventgate-session" {
			return c
		}
	}
	return nil
}

var _ = Describe("Event ingress", func() {
	It("issues a session cookie and accepts an event on the first request", func() {
		resp := postJSON("/event/greet", `{"who": "world"}`)
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
		Expect(resp.Header.Get("Content-Length")).To(Equal("0"))

		cookie := sessionCookie(resp)
		Expect(cookie).NotTo(BeNil())
		Expect(cookie.Value).To(ContainSubstring("-"))
		Expect(cookie.Path).To(Equal("/"))
	})

	It("does not reissue the cookie on a follow-up request", func() {
		first := postJSON("/event/greet", `{"n": 1}`)
		first.Body.Close()
		cookie := sessionCookie(first)
		Expect(cookie).NotTo(BeNil())

		second := postJSON("/event/greet", `{"n": 2}`, cookie)
		defer second.Body.Close()

		Expect(second.StatusCode).To(Equal(http.StatusAccepted))
		Expect(sessionCookie(second)).To(BeNil())
	})

	It("accepts events on configured routes", func() {
		resp := postJSON("/fire", `{"fuse": "lit"}`)
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
	})

	It("rejects JSON whose root is not an object", func() {
		resp := postJSON("/event/greet", `[1,2,3]`)
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Message).To(ContainSubstring("expect a JSON object"))
	})

	It("rejects malformed JSON", func() {
		resp := postJSON("/event/greet", `{"who":`)
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("requires a content length", func() {
		// Wrapping the reader hides its length, so the client sends
		// chunked encoding and no Content-Length header.
		req, err := http.NewRequest("POST", ts.BaseURL+"/event/greet",
			struct{ io.Reader }{strings.NewReader(`{"who": "world"}`)})
		Expect(err).NotTo(HaveOccurred())

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusLengthRequired))
	})
})

var _ = Describe("Session listing", func() {
	It("exposes sessions with last-seen times", func() {
		resp := postJSON("/event/greet", `{"n": 1}`)
		resp.Body.Close()
		cookie := sessionCookie(resp)
		Expect(cookie).NotTo(BeNil())

		listResp, err := http.Get(ts.BaseURL + "/session")
		Expect(err).NotTo(HaveOccurred())
		defer listResp.Body.Close()

		Expect(listResp.StatusCode).To(Equal(http.StatusOK))

		var infos []struct {
			ID string `json:"id"`
		}
		Expect(json.NewDecoder(listResp.Body).Decode(&infos)).To(Succeed())

		ids := make([]string, 0, len(infos))
		for _, info := range infos {
			ids = append(ids, info.ID)
		}
		Expect(ids).To(ContainElement(cookie.Value))
	})

	It("reports the current context", func() {
		posted := postJSON("/event/greet", `{"n": 1}`)
		posted.Body.Close()

		resp, err := http.Get(ts.BaseURL + "/session/current")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body struct {
			ID string `json:"id"`
		}
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body.ID).NotTo(BeEmpty())
	})
})
