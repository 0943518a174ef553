package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gitlab.com/dirk.krummacker/contacts-assistant/internal/addressbook"
	"gitlab.com/dirk.krummacker/contacts-assistant/internal/storage"
)

// Measures the average duration in nanoseconds of the address book operations for growing book
// sizes, and the total duration in microseconds of saving and loading the whole book.
//
// Usage example on the command line:
// > go run main.go
func main() {
	dir, err := os.MkdirTemp("", "assistant-benchmark")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)
	store := storage.NewFileStore(filepath.Join(dir, "address_book.json"), nil)

	fmt.Println()
	fmt.Println("  Elements       ADD    CHANGE     PHONE  BIRTHDAY      SAVE      LOAD ")
	fmt.Println("-----------------------------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	for _, loops := range sizes {
		book := addressbook.New()
		names := createNames(loops)
		fmt.Printf("%10d", loops)
		callInLoop(names, func(name string) { book.AddContact(name, "+39 999 777 555") })
		callInLoop(names, func(name string) { book.ChangeContact(name, "+39 111 222 333") })
		callInLoop(names, func(name string) { book.ShowPhone(name) })
		callInLoop(names, func(name string) { book.AddBirthday(name, "09.11.1927") })
		{
			before := time.Now()
			if err := book.SaveTo(context.Background(), store); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%10d", time.Since(before).Microseconds())
		}
		{
			before := time.Now()
			if _, err := addressbook.New().LoadFrom(context.Background(), store); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%10d", time.Since(before).Microseconds())
		}
		fmt.Println()
	}
}

// callInLoop calls f once per name, in random order, and prints the average duration.
func callInLoop(names []string, f func(name string)) {
	shuffled := append([]string(nil), names...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	before := time.Now()
	for _, name := range shuffled {
		f(name)
	}
	fmt.Printf("%10d", time.Since(before).Nanoseconds()/int64(len(names)))
}

// createNames returns loops distinct usernames.
func createNames(loops int) []string {
	names := make([]string, 0, loops)
	for i := 0; i < loops; i++ {
		names = append(names, "marcus"+strconv.Itoa(i))
	}
	return names
}
