package example

import (
	"context"
	"fmt"
	"net/rpc"
	"sync"
	"testing"
	"time"

	"github.com/jasonkayzk/respool/pool"
)

const (
	benchmarkTime = 5000
)

func TestRpcBenchmark(t *testing.T) {
	p, _ := newRPCPool()
	defer p.Close(time.Second)

	wg := sync.WaitGroup{}
	// simpleMethod
	wg.Add(1)
	go func() {
		defer wg.Done()
		now := time.Now()
		for i := 0; i < benchmarkTime; i++ {
			simpleMethod(&Args{A: i, B: 1})
		}
		fmt.Println("simpleMethod elapsed: ", time.Since(now))
	}()
	// poolMethod
	wg.Add(1)
	go func() {
		defer wg.Done()
		now := time.Now()
		for i := 0; i < benchmarkTime; i++ {
			poolMethod(p, &Args{A: i, B: 1})
		}
		fmt.Println("poolMethod elapsed: ", time.Since(now))
	}()

	wg.Wait()
}

func poolMethod(p pool.Pool[*rpc.Client], args *Args) {
	cli, err := p.Acquire(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer p.Release(cli)

	var resp int
	if err := cli.Call("Number.Multiply", *args, &resp); err != nil {
		fmt.Println(err)
	}
}

func simpleMethod(args *Args) {
	client, err := rpc.DialHTTP(
		"tcp",
		address,
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer client.Close()

	var resp int
	if err := client.Call("Number.Multiply", *args, &resp); err != nil {
		fmt.Println(err)
	}
}
