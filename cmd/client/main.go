package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"gitlab.com/dirk.krummacker/contacts-page/pkg/model"
)

type CLI struct {
	Server string `help:"Base URL of the contacts service." default:"http://localhost:8080"`
	Sizes  []int  `help:"Number of requests per method and round." default:"1000,5000,10000,50000,100000"`
}

// Usage example on the command line:
// > go run main.go --sizes=100,1000
func main() {
	var cli CLI
	kong.Parse(&cli, kong.Name("client"), kong.Description("Measures the mean latency of the contacts API."))
	c := client{base: cli.Server + "/api/contacts"}

	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	postBody := mustMarshal(model.CreateContactRequest{
		FirstName: "Marcus",
		LastName:  "Antonius",
		Phone:     ptr("+39 9997775550"),
		City:      ptr("Rome"),
	})
	putBody := mustMarshal(model.UpdateContactRequest{
		City:    ptr("Alexandria"),
		Country: ptr("Egypt"),
	})
	for _, loops := range cli.Sizes {
		firstID, _ := c.sendPostRequest(bytes.NewReader(postBody))
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				_, d := c.sendPostRequest(bytes.NewReader(postBody))
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id int64) int64 {
				return c.sendPutGetDeleteRequest(id, http.MethodPut, bytes.NewReader(putBody))
			}
			callInLoop(firstID, loops, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return c.sendPutGetDeleteRequest(id, http.MethodGet, nil)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return c.sendPutGetDeleteRequest(id, http.MethodDelete, nil)
			}
			callInLoop(firstID, loops, f)
		}
		c.sendPutGetDeleteRequest(firstID, http.MethodDelete, nil)
		fmt.Println()
	}
}

func ptr(s string) *string { return &s }

func mustMarshal(v any) []byte {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return body
}

func callInLoop(firstID int64, loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(firstID+1, loops)
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

type client struct {
	base string
}

func (c client) sendPostRequest(bodyReader io.Reader) (int64, int64) {
	resBody, status, duration := sendRequest(http.MethodPost, c.base, bodyReader)
	if status != http.StatusCreated {
		panic(fmt.Sprintf("unexpected status %d: %s", status, resBody))
	}
	var contact model.Contact
	err := json.Unmarshal(resBody, &contact)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return contact.Id, duration
}

func (c client) sendPutGetDeleteRequest(id int64, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("%s/%d", c.base, id)
	_, _, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, res.StatusCode, after - before
}
