// Package cookies loads browser cookies exported for bandcamp.com and turns
// them into an [net/http.CookieJar].
//
// Two export formats are understood:
//
//	cookies.json: [{"Host raw": "https://.bandcamp.com/", "Name raw": "identity", "Content raw": "..."}]
//	cookies.txt:  Netscape format, seven tab-separated columns per cookie
//
// Example usage:
//
//	list, err := cookies.Load("") // ./cookies.json, then ./cookies.txt
//	if err != nil {
//	    log.Fatal(err)
//	}
//	jar, err := cookies.Jar(list)
package cookies
