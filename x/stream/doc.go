/*
Package stream implements continuous payment streams.

A sender locks funds that vest to a recipient block by block, at a
fixed payment per block over a declared timeframe. The recipient can
withdraw whatever has vested at any time. Once the timeframe is over,
the sender can refund the part that never vested. While the stream is
running the sender can refuel it with more funds, and both parties can
amend the payment rate and timeframe if the counterparty signs off on
the new terms.

Funds in a stream are held on an account derived from the stream ID,
so they are out of reach of both parties until vesting decides whose
they are.
*/
package stream
